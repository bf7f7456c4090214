// Package ingesttest writes small ml-100k style source directories for tests.
package ingesttest

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// GenreNames is the u.genre taxonomy in id order.
var GenreNames = []string{
	"unknown", "Action", "Adventure", "Animation", "Children's", "Comedy",
	"Crime", "Documentary", "Drama", "Fantasy", "Film-Noir", "Horror",
	"Musical", "Mystery", "Romance", "Sci-Fi", "Thriller", "War", "Western",
}

// Fixture maps file names to raw file contents.
type Fixture map[string][]byte

// Default returns three users, two items (genres 0 and 18 set on the first,
// none on the second) and four ratings. The second title is ISO-8859-1.
func Default() Fixture {
	var genre strings.Builder
	for i, g := range GenreNames {
		genre.WriteString(g)
		genre.WriteString("|")
		genre.WriteString(strconv.Itoa(i))
		genre.WriteString("\n")
	}
	genre.WriteString("\n")

	return Fixture{
		"u.genre":      []byte(genre.String()),
		"u.occupation": []byte("administrator\nother\ntechnician\nwriter\n"),
		"u.user": []byte("1|24|M|technician|85711\n" +
			"2|53|F|other|94043\n" +
			"3|23|M|writer|32067\n"),
		"u.item": []byte(
			"1|Toy Story (1995)|01-Jan-1995||http://us.imdb.com/M/title-exact?Toy%20Story%20(1995)|" + Flags(0, 18) + "\n" +
				"2|Caf\xe9 au lait (1993)|01-Jan-1993|||" + Flags() + "\n"),
		"u.data": []byte("1\t1\t5\t874965758\n" +
			"2\t1\t3\t876893171\n" +
			"3\t2\t4\t878542960\n" +
			"1\t2\t1\t876893119\n"),
	}
}

// Flags renders a pipe-joined 19-flag block with the given indices set.
func Flags(set ...int) string {
	flags := make([]string, len(GenreNames))
	for i := range flags {
		flags[i] = "0"
	}
	for _, i := range set {
		flags[i] = "1"
	}
	return strings.Join(flags, "|")
}

// Write stores f under a fresh temporary directory and returns its path.
func (f Fixture) Write(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	f.WriteTo(t, dir)
	return dir
}

// WriteTo stores f under dir.
func (f Fixture) WriteTo(t testing.TB, dir string) {
	t.Helper()
	for name, body := range f {
		if err := os.WriteFile(filepath.Join(dir, name), body, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}
