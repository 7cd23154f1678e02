// Package renderer turns view state into markdown, then into terminal output
// or HTML.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/stocksboard"
	"github.com/shopspring/decimal"
)

//go:embed *.md
var templates embed.FS

// Options holds configuration for rendering.
type Options struct {
	Currency string // ISO code used to format prices, DefaultCurrency when empty
}

func (o Options) funcs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string { return stocksboard.M(d, o.Currency).String() },
		"cell":  cell,
		"role":  roleLabel,
	}
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func roleLabel(role string) string {
	if stocksboard.IsAdminRole(role) {
		return "Admin"
	}
	return "User"
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, opts Options, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(opts.funcs()).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

var header = map[string]string{"header": "header.md"}

// Page is the chrome around every rendered view.
type Page struct {
	Title    string
	Username string // Guest without a session
	Nav      []stocksboard.Route
}

// Stocks renders the admin dashboard.
func Stocks(p Page, stocks []stocksboard.Stock, opts Options) string {
	return renderTemplate("stocks", "stocks.md", header, opts, struct {
		Page
		Stocks []stocksboard.Stock
		Admin  bool
	}{p, stocks, true})
}

// Market renders the read-only stock list.
func Market(p Page, stocks []stocksboard.Stock, opts Options) string {
	return renderTemplate("stocks", "stocks.md", header, opts, struct {
		Page
		Stocks []stocksboard.Stock
		Admin  bool
	}{p, stocks, false})
}

// Users renders the user management screen.
func Users(p Page, users []stocksboard.User) string {
	return renderTemplate("users", "users.md", header, Options{}, struct {
		Page
		Users []stocksboard.User
	}{p, users})
}

// Portfolio renders the holdings and the total profit.
func Portfolio(p Page, holdings []stocksboard.Holding, total decimal.Decimal, opts Options) string {
	return renderTemplate("portfolio", "portfolio.md", header, opts, struct {
		Page
		Holdings []stocksboard.Holding
		Total    decimal.Decimal
	}{p, holdings, total})
}

// Trades renders a trade history.
func Trades(p Page, trades []stocksboard.Trade, opts Options) string {
	return renderTemplate("trades", "trades.md", header, opts, struct {
		Page
		Trades []stocksboard.Trade
	}{p, trades})
}

// Identity is what whoami shows.
type Identity struct {
	Session   stocksboard.Session
	Landing   stocksboard.Route
	Subject   string // from the token claims, if any
	ExpiresAt string
	Expired   bool
}

// Whoami renders the current session.
func Whoami(p Page, id Identity) string {
	return renderTemplate("whoami", "whoami.md", header, Options{}, struct {
		Page
		Identity
	}{p, id})
}
