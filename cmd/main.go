package cmd

import (
	"github.com/etnz/stocksboard"
	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&loginCmd{}, "session")
	c.Register(&registerCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&whoamiCmd{}, "session")

	c.Register(&homeCmd{}, "navigation")
	c.Register(&consoleCmd{}, "navigation")
	c.Register(&topicCmd{}, "navigation")

	c.Register(&stocksCmd{}, "admin")
	c.Register(&addStockCmd{}, "admin")
	c.Register(&editStockCmd{}, "admin")
	c.Register(&deleteStockCmd{}, "admin")
	c.Register(&updatePricesCmd{}, "admin")
	c.Register(&usersCmd{}, "admin")
	c.Register(&deleteUserCmd{}, "admin")

	c.Register(&marketCmd{}, "trading")
	c.Register(&portfolioCmd{}, "trading")
	c.Register(&tradesCmd{}, "trading")
	c.Register(&orderCmd{kind: stocksboard.Buy}, "trading")
	c.Register(&orderCmd{kind: stocksboard.Sell}, "trading")
}
