package cli

import "github.com/urfave/cli/v3"

// joinFlags flattens the per-concern flag sets into the single slice a
// command takes
func joinFlags(flags ...[]cli.Flag) []cli.Flag {
	var joined []cli.Flag
	for _, set := range flags {
		joined = append(joined, set...)
	}
	return joined
}
