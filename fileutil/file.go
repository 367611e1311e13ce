// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package fileutil contains code to work with shell files, also known
// as shell scripts.
package fileutil

import (
	"io/fs"
	"regexp"
	"strings"
)

var (
	shebangRe = regexp.MustCompile(`^#![ \t]*/(usr/)?bin/(env[ \t]+)?([a-z]+)([ \t\r\n]|$)`)
	extRe     = regexp.MustCompile(`\.(sh|bash|rbsh)$`)
)

// Shebang parses a "#!" sequence from the beginning of the input bytes,
// and returns the shell that it points to.
//
// For instance, it returns "sh" for "#!/bin/sh",
// and "rbsh" for "#!/usr/bin/env rbsh".
func Shebang(bs []byte) string {
	m := shebangRe.FindSubmatch(bs)
	if m == nil {
		return ""
	}
	return string(m[3])
}

// HasShebang reports whether bs begins with a shebang pointing to a shell
// that rbshfmt understands.
func HasShebang(bs []byte) bool {
	switch Shebang(bs) {
	case "sh", "bash", "rbsh":
		return true
	}
	return false
}

// Rubyish guesses whether a file is written in the rubyish dialect, from
// its name and its first bytes.
func Rubyish(name string, head []byte) bool {
	return strings.HasSuffix(name, ".rbsh") || Shebang(head) == "rbsh"
}

// ScriptConfidence defines how likely a file is to be a shell script,
// from complete certainty that it is not one to complete certainty that
// it is one.
type ScriptConfidence int

const (
	// ConfNotScript describes files which are definitely not shell scripts,
	// such as non-regular files or files with a non-shell extension.
	ConfNotScript ScriptConfidence = iota

	// ConfIfShebang describes files which might be shell scripts, depending
	// on the shebang line in the file's contents. Since CouldBeScript only
	// works on fs.DirEntry, the caller must check the shebang themselves.
	ConfIfShebang

	// ConfIsScript describes files which are definitely shell scripts,
	// which are regular files with a valid shell extension.
	ConfIsScript
)

// CouldBeScript reports how likely a directory entry is to be a shell
// script. It discards directories, symlinks, hidden files and files with
// non-shell extensions.
func CouldBeScript(entry fs.DirEntry) ScriptConfidence {
	name := entry.Name()
	switch {
	case entry.IsDir(), name[0] == '.':
		return ConfNotScript
	case entry.Type()&fs.ModeSymlink != 0:
		return ConfNotScript
	case extRe.MatchString(name):
		return ConfIsScript
	case strings.IndexByte(name, '.') > 0:
		return ConfNotScript // different extension
	default:
		return ConfIfShebang
	}
}
