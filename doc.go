// Package stocksboard provides the client side of the StocksBoard stock
// management system: the records exchanged with the backend API, the session
// held by the client and the role-based routes it navigates to.
//
// The core functionalities live in sub-packages:
//   - api: the single configured HTTP client, with bearer-token attachment,
//     used for every call to the backend.
//   - session: the session store, the only component allowed to read or write
//     the persisted {token, role, userId, username} quadruple.
//   - auth: the login and register-then-login flows.
//   - view: the list-mutate-refresh controllers (stocks, users, portfolio,
//     trades) and the role-gated navigation shell.
//   - renderer: markdown rendering of views.
//
// This package serves as the foundational vocabulary for the `sb`
// command-line tool. The backend is the only trust boundary: role checks made
// here choose a landing page, they never protect anything.
package stocksboard
