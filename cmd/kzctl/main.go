// Command kzctl is the league's out-of-band operator CLI: schema
// migration today, with room for the admin tasks that don't belong behind
// an HTTP route.
package main

import (
	"github.com/kz-league/backend/cmd/kzctl/cmd"
)

func main() {
	cmd.Execute()
}
