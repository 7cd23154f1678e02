package view

import (
	"fmt"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/api"
	"github.com/etnz/stocksboard/session"
)

// UsersView is the admin user management screen. Deleting a user also
// deletes their holdings and trades server side, so every delete asks for
// confirmation first.
type UsersView struct {
	*List[stocksboard.User]
}

// NewUsersView returns an unmounted user list. confirm receives the prompt
// built by DeletePrompt; a nil confirm declines every delete.
func NewUsersView(client *api.Client, store *session.Store, confirm func(prompt string) bool) *UsersView {
	l := NewList[stocksboard.User]("user", store, client.Users, client.DeleteUser)
	l.Confirm = func(u stocksboard.User) bool {
		return confirm != nil && confirm(DeletePrompt(u))
	}
	return &UsersView{List: l}
}

// DeletePrompt is the confirmation asked before deleting u.
func DeletePrompt(u stocksboard.User) string {
	return fmt.Sprintf("Are you sure you want to delete user %q? This will also delete all their portfolio and trade records.", u.Username)
}
