// portalstats - Personnel portal log statistics toolkit
//
// portalstats splits raw portal application logs into per-date, per-user
// files and derives usage reports (browser/device mix, activity patterns,
// UI feature usage) from the split tree for the usage dashboard.
package main

import (
	"os"

	"github.com/portal-tools/portalstats/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
