// ABOUTME: Help display for the rulings CLI with grouped flags, examples, and environment status.
// ABOUTME: Provides printHelp for polished usage output and envStatus for configuration detection.
package main

import (
	"fmt"
	"io"
	"os"
)

// printHelp writes a formatted help message to w, including usage patterns,
// grouped flags, examples, and environment status.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "rulings %s — collaborative rulings editor for the VTES card database\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  rulings <card>                  Edit a card's rulings (uid or name)")
	fmt.Fprintln(w, "  rulings -group <uid>            Edit a card group")
	fmt.Fprintln(w, "  rulings -check                  Check references and consistency")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Proposal Flags:")
	fmt.Fprintln(w, "  -proposal <uid>       Resume an existing proposal")
	fmt.Fprintln(w, "  -name <name>          Name for a new proposal")
	fmt.Fprintln(w, "  -description <text>   Description for a new proposal")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -api <url>            API base URL (default: http://127.0.0.1:5000)")
	fmt.Fprintln(w, "  -config <file>        Settings file (default: rulings.yaml)")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  rulings \"Govern the Unaligned\"")
	fmt.Fprintln(w, "  rulings 100038")
	fmt.Fprintln(w, "  rulings -group G00000013")
	fmt.Fprintln(w, "  rulings -proposal P3K5T8Q2 100038")
	fmt.Fprintln(w, "  rulings -check")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  RULINGS_API_URL       %s\n", envStatus("RULINGS_API_URL"))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Keys: tab select | ctrl+n new | ctrl+d delete | ctrl+t restore | ctrl+s save")
	fmt.Fprintln(w, "      ctrl+b symbol | ctrl+f card | ctrl+r reference | ctrl+e detach reference")
	fmt.Fprintln(w, "      ctrl+o group rulings | ctrl+p cart | ctrl+c quit")
}

// envStatus returns "[set]" if the named environment variable is non-empty,
// or "[not set]" otherwise.
func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "[set]"
	}
	return "[not set]"
}
