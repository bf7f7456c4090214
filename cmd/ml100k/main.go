// Command ml100k loads the MovieLens ml-100k files, reports on them and
// replaces the Users, Movies and Ratings tables in a relational store.
package main

import (
	"fmt"
	"os"

	"ml100k/internal/apperrors"
	"ml100k/internal/logging"

	// register all backends with the storage factory.
	_ "ml100k/internal/storage/all"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ml100k: %s\n", logging.SanitizeError(err))
	}
	os.Exit(apperrors.ExitCode(err))
}
