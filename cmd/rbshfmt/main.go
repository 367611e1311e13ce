// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// rbshfmt formats shell programs written in the classic or the rubyish
// dialect.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/pkg/diff"
	diffwrite "github.com/pkg/diff/write"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"mvdan.cc/editorconfig"

	"github.com/rbsh/rbsh/fileutil"
	"github.com/rbsh/rbsh/syntax"
	"github.com/rbsh/rbsh/syntax/typedjson"
)

var (
	showVersion = pflag.Bool("version", false, "")

	list    = pflag.BoolP("list", "l", false, "")
	write   = pflag.BoolP("write", "w", false, "")
	diffOut = pflag.BoolP("diff", "d", false, "")
	check   = pflag.BoolP("check", "n", false, "")
	find    = pflag.BoolP("find", "f", false, "")

	rubyish  = pflag.BoolP("rubyish", "r", false, "")
	indent   = pflag.UintP("indent", "i", 0, "")
	filename = pflag.String("filename", "", "")

	toJSON = pflag.Bool("tojson", false, "")
	trace  = pflag.Bool("trace", false, "")

	logLevel = pflag.String("log-level", "warn", "")
	logFile  = pflag.String("log-file", "", "")

	// useEditorConfig will be false if any parser or printer flags were used.
	useEditorConfig = true

	in     io.Reader = os.Stdin
	out    io.Writer = os.Stdout
	color  bool
	logger *slog.Logger

	version = "(devel)" // to match the default from runtime/debug
)

func main() {
	os.Exit(main1())
}

func main1() int {
	pflag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: rbshfmt [flags] [path ...]

rbshfmt formats shell programs. If the only argument is a dash ('-') or no
arguments are given, standard input will be used. If a given path is a
directory, all shell files in it will be formatted recursively.

      --version     show version and exit

  -l, --list        list files whose formatting differs from rbshfmt's
  -w, --write       write result to file instead of stdout
  -d, --diff        error with a diff when the formatting differs
  -n, --check       only parse the input and report syntax errors
  -f, --find        recursively find all shell files and print the paths

Parser options:

  -r, --rubyish     parse the rubyish dialect
      --filename    provide a name for the standard input file
      --trace       write a trace of the parser to standard error

Printer options:

  -i, --indent uint 0 for tabs (default), >0 for number of spaces

Utilities:

      --tojson      print syntax tree to stdout as a typed JSON
      --log-level   debug, info, warn or error (default warn)
      --log-file    also write JSON logs to the given file
`)
	}
	pflag.Parse()

	if *showVersion {
		// don't overwrite the version if it was set by -ldflags=-X
		if info, ok := debug.ReadBuildInfo(); ok && version == "(devel)" {
			mod := &info.Main
			if mod.Replace != nil {
				mod = mod.Replace
			}
			if mod.Version != "" {
				version = mod.Version
			}
		}
		fmt.Fprintln(out, version)
		return 0
	}

	var closeLog func() error
	var err error
	logger, closeLog, err = newLogger(os.Stderr, *logLevel, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeLog()

	if os.Getenv("RBSHFMT_NO_EDITORCONFIG") == "true" {
		useEditorConfig = false
	}
	pflag.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "rubyish", "indent":
			useEditorConfig = false
		}
	})

	if os.Getenv("FORCE_COLOR") == "true" {
		// Undocumented way to force color; used in the tests.
		color = true
	} else if os.Getenv("TERM") == "dumb" {
		// Equivalent to forcing color to be turned off.
	} else if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		color = true
	}
	if pflag.NArg() == 0 || (pflag.NArg() == 1 && pflag.Arg(0) == "-") {
		name := "<standard input>"
		if *filename != "" {
			name = *filename
		}
		if err := formatStdin(name); err != nil {
			if err != errChangedWithDiff {
				fmt.Fprintln(os.Stderr, err)
			}
			return 1
		}
		return 0
	}
	if *filename != "" {
		fmt.Fprintln(os.Stderr, "--filename can only be used with stdin")
		return 1
	}
	if *toJSON {
		fmt.Fprintln(os.Stderr, "--tojson can only be used with stdin")
		return 1
	}
	if *write && *check {
		fmt.Fprintln(os.Stderr, "--write and --check cannot coexist")
		return 1
	}

	var jobs []job
	status := 0
	for _, path := range pflag.Args() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() && !*find {
			// When given paths to files directly, always format
			// them, no matter their extension or shebang.
			//
			// The only exception is the -f flag; in that case, we
			// do want to report whether the file is a shell script.
			jobs = append(jobs, job{path: path})
			continue
		}
		if err := filepath.WalkDir(path, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			j, err := walkPath(path, entry)
			switch {
			case err == filepath.SkipDir:
				return err
			case err != nil:
				fmt.Fprintln(os.Stderr, err)
				status = 1
			case j != nil:
				jobs = append(jobs, *j)
			}
			return nil
		}); err != nil {
			// Something went wrong walking the filesystem; stop.
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if runJobs(jobs) {
		status = 1
	}
	return status
}

var errChangedWithDiff = errors.New("")

// job is a single file to be formatted.
type job struct {
	path         string
	checkShebang bool

	out bytes.Buffer
	err error
}

// runJobs formats files concurrently, but prints their results in the
// order they were given. It reports whether any job failed.
func runJobs(jobs []job) bool {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	if *trace {
		// traces of different files must not interleave
		g.SetLimit(1)
	}
	for i := range jobs {
		j := &jobs[i]
		g.Go(func() error {
			j.err = formatPath(j.path, j.checkShebang, &j.out)
			return nil
		})
	}
	g.Wait()

	failed := false
	for i := range jobs {
		j := &jobs[i]
		if _, err := out.Write(j.out.Bytes()); err != nil && j.err == nil {
			j.err = err
		}
		switch {
		case j.err == nil:
		case j.err == errChangedWithDiff:
			failed = true
		case errors.Is(j.err, fs.ErrNotExist) && j.checkShebang:
			// the file disappeared while walking
		default:
			logger.Debug("format failed", "path", j.path, "error", j.err)
			fmt.Fprintln(os.Stderr, j.err)
			failed = true
		}
	}
	return failed
}

func formatStdin(name string) error {
	if *write {
		return fmt.Errorf("--write cannot be used on standard input")
	}
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	return formatBytes(src, name, out)
}

var vcsDir = regexp.MustCompile(`^\.(git|svn|hg)$`)

// walkPath decides what to do with each directory entry, returning a job
// for the files which may be shell scripts.
func walkPath(path string, entry fs.DirEntry) (*job, error) {
	if entry.IsDir() && vcsDir.MatchString(entry.Name()) {
		return nil, filepath.SkipDir
	}
	if useEditorConfig {
		props, err := ecFind(path)
		if err != nil {
			return nil, err
		}
		if props.Get("ignore") == "true" {
			logger.Debug("ignored by editorconfig", "path", path)
			if entry.IsDir() {
				return nil, filepath.SkipDir
			}
			return nil, nil
		}
	}
	conf := fileutil.CouldBeScript(entry)
	if conf == fileutil.ConfNotScript {
		return nil, nil
	}
	return &job{path: path, checkShebang: conf == fileutil.ConfIfShebang}, nil
}

var (
	ecQueryMu sync.Mutex
	ecQuery   = editorconfig.Query{
		FileCache:   make(map[string]*editorconfig.File),
		RegexpCache: make(map[string]*regexp.Regexp),
	}
)

// ecFind looks up the editorconfig properties for a path. The query
// caches are shared by all jobs.
func ecFind(path string) (editorconfig.Section, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return editorconfig.Section{}, err
	}
	ecQueryMu.Lock()
	defer ecQueryMu.Unlock()
	return ecQuery.Find(abs)
}

// fileConfig holds the options used for a single file.
type fileConfig struct {
	rubyish bool
	printer syntax.PrintConfig
}

func configFor(path string, src []byte) (fileConfig, error) {
	var c fileConfig
	if pflag.CommandLine.Changed("rubyish") {
		c.rubyish = *rubyish
	} else {
		c.rubyish = fileutil.Rubyish(path, src)
	}
	c.printer.Spaces = int(*indent)
	if !useEditorConfig {
		c.printer.Rubyish = c.rubyish
		return c, nil
	}
	props, err := ecFind(path)
	if err != nil {
		return c, err
	}
	switch props.Get("shell_variant") {
	case "rubyish":
		c.rubyish = true
	case "bash", "posix", "sh":
		c.rubyish = false
	}
	if props.Get("indent_style") == "space" {
		c.printer.Spaces = 8
		if n := props.IndentSize(); n > 0 {
			c.printer.Spaces = n
		}
	}
	c.printer.Rubyish = c.rubyish
	return c, nil
}

func formatPath(path string, checkShebang bool, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var readBuf bytes.Buffer
	if checkShebang {
		head := make([]byte, 32)
		n, err := io.ReadFull(f, head)
		if err != nil && err != io.ErrUnexpectedEOF {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if !fileutil.HasShebang(head[:n]) {
			return nil
		}
		readBuf.Write(head[:n])
	}
	if *find {
		fmt.Fprintln(w, path)
		return nil
	}
	if _, err := io.Copy(&readBuf, f); err != nil {
		return err
	}
	f.Close()
	return formatBytes(readBuf.Bytes(), path, w)
}

func formatBytes(src []byte, path string, w io.Writer) error {
	c, err := configFor(path, src)
	if err != nil {
		return err
	}
	logger.Debug("formatting", "path", path, "rubyish", c.rubyish)
	opts := []syntax.ParserOption{syntax.Rubyish(c.rubyish)}
	if *trace {
		opts = append(opts, syntax.Trace(os.Stderr))
	}
	prog, err := syntax.NewParser(opts...).Parse(bytes.NewReader(src), path)
	if err != nil {
		return err
	}
	if *check {
		return nil
	}
	if *toJSON {
		// must be standard input; fine to return
		return typedjson.EncodeOptions{Indent: "\t"}.Encode(w, prog)
	}
	var writeBuf bytes.Buffer
	if err := c.printer.Fprint(&writeBuf, prog); err != nil {
		return err
	}
	res := writeBuf.Bytes()
	if !bytes.Equal(src, res) {
		if *list {
			if _, err := fmt.Fprintln(w, path); err != nil {
				return err
			}
		}
		if *write {
			info, err := os.Lstat(path)
			if err != nil {
				return err
			}
			perm := info.Mode().Perm()
			writeFile := renameio.WriteFile
			// TODO: support atomic writes on Windows once renameio
			// supports it
			if runtime.GOOS == "windows" {
				writeFile = func(filename string, data []byte, perm os.FileMode, _ ...renameio.Option) error {
					return os.WriteFile(filename, data, perm)
				}
			}
			if err := writeFile(path, res, perm); err != nil {
				return err
			}
			logger.Info("rewrote file", "path", path)
		}
		if *diffOut {
			opts := []diffwrite.Option{}
			if color {
				opts = append(opts, diffwrite.TerminalColor())
			}
			if err := diff.Text(path+".orig", path, src, res, w, opts...); err != nil {
				return fmt.Errorf("computing diff: %w", err)
			}
			return errChangedWithDiff
		}
	}
	if !*list && !*write && !*diffOut {
		if _, err := w.Write(res); err != nil {
			return err
		}
	}
	return nil
}
