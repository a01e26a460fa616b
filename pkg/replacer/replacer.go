package replacer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/catalogcheck/pkg/catalog"
	"github.com/matzehuels/catalogcheck/pkg/checker"
	"github.com/matzehuels/catalogcheck/pkg/errors"
)

// Replacer rewrites catalog files in place.
type Replacer struct {
	rename func(oldpath, newpath string) error
}

// New returns a Replacer that swaps files with [os.Rename].
func New() *Replacer {
	return &Replacer{rename: os.Rename}
}

// Replace loads the catalog at path and applies the updates that belong to
// it. It returns the number of literals replaced.
func Replace(path string, updates []checker.UpdateResult) (int, error) {
	cat, err := catalog.Load(path)
	if err != nil {
		return 0, err
	}
	return New().Apply(path, Plan(cat, updates))
}

// Apply writes reps into the file at path and returns how many were applied.
// reps must be sorted by position, as returned by [Plan], and describe the
// current content of the file. Failures are reported with
// [errors.ErrCodeReplaceFailed] and leave the original file in place.
func (r *Replacer) Apply(path string, reps []Replacement) (int, error) {
	if len(reps) == 0 {
		return 0, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeReplaceFailed, err, "stat %s", path)
	}

	dir, base := filepath.Split(path)
	id := uuid.NewString()
	tmp := filepath.Join(dir, "."+base+"."+id+".tmp")
	backup := filepath.Join(dir, "."+base+"."+id+".bak")

	if err := writeReplaced(path, tmp, info.Mode().Perm(), reps); err != nil {
		os.Remove(tmp)
		return 0, errors.Wrap(errors.ErrCodeReplaceFailed, err, "rewrite %s", path)
	}
	if err := r.swap(path, tmp, backup); err != nil {
		return 0, errors.Wrap(errors.ErrCodeReplaceFailed, err, "replace %s", path)
	}
	return len(reps), nil
}

// swap moves tmp into place, keeping the original as backup until the
// second rename has succeeded.
func (r *Replacer) swap(path, tmp, backup string) error {
	if err := r.rename(path, backup); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := r.rename(tmp, path); err != nil {
		if rerr := r.rename(backup, path); rerr != nil {
			return fmt.Errorf("%w (restoring backup %s: %v)", err, backup, rerr)
		}
		os.Remove(tmp)
		return err
	}
	os.Remove(backup)
	return nil
}

func writeReplaced(src, dst string, perm os.FileMode, reps []Replacement) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	if err := copyReplaced(w, bufio.NewReader(in), reps); err != nil {
		out.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return err
	}
	if err := out.Chmod(perm); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// copyReplaced copies r to w line by line. Lines that hold replaced literals
// are collected into one segment so a literal may span lines.
func copyReplaced(w io.Writer, r *bufio.Reader, reps []Replacement) error {
	line := 0
	next := 0
	readLine := func() (string, error) {
		s, err := r.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err == nil {
			line++
		}
		return s, err
	}

	for {
		text, err := readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if next >= len(reps) || reps[next].Position.Line != line {
			if _, err := io.WriteString(w, text); err != nil {
				return err
			}
			continue
		}

		seg := segment{start: line, lines: []int{0}, text: text}
		end := line
		var group []Replacement
		for next < len(reps) && reps[next].Position.Line <= end {
			group = append(group, reps[next])
			end = max(end, reps[next].Position.EndLine())
			next++
			for line < end {
				more, err := readLine()
				if err == io.EOF {
					return fmt.Errorf("literal at line %d runs past the end of the file", group[len(group)-1].Position.Line)
				}
				if err != nil {
					return err
				}
				seg.lines = append(seg.lines, len(seg.text))
				seg.text += more
			}
		}
		out, err := seg.splice(group)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}

	if next < len(reps) {
		return fmt.Errorf("no line %d for %s", reps[next].Position.Line, reps[next].Key)
	}
	return nil
}

// segment is a run of consecutive source lines starting at line start.
type segment struct {
	start int
	lines []int // offset of each line within text
	text  string
}

// splice substitutes reps, which start within the segment and are sorted
// by position.
func (s segment) splice(reps []Replacement) (string, error) {
	var b strings.Builder
	b.Grow(len(s.text))
	prev := 0
	for _, rep := range reps {
		pos := rep.Position
		at := s.lines[pos.Line-s.start] + pos.Column - 1
		end := at + len(pos.Literal)
		switch {
		case pos.Column < 1 || at < prev:
			return "", fmt.Errorf("%s: overlapping replacement at %d:%d", rep.Key, pos.Line, pos.Column)
		case end > len(s.text) || s.text[at:end] != pos.Literal:
			return "", fmt.Errorf("%s: expected %q at %d:%d; the file changed since it was read", rep.Key, pos.Literal, pos.Line, pos.Column)
		}
		b.WriteString(s.text[prev:at])
		b.WriteString(rep.New)
		prev = end
	}
	b.WriteString(s.text[prev:])
	return b.String(), nil
}
