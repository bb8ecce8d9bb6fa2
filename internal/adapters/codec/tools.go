package codec

import (
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	perr "wdlabels/internal/platform/errors"
)

// Builtin names the in-process codec in tool preference lists
const Builtin = "builtin"

// Command is one external tool invocation, without the input path
type Command struct {
	Tool string
	Args []string
}

// String renders the command the way it would be typed
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Tool
	}
	return c.Tool + " " + strings.Join(c.Args, " ")
}

// Format names the container of a dump or output file
type Format string

// Supported containers
const (
	FormatBzip2 Format = "bz2"
	FormatGzip  Format = "gz"
	FormatZstd  Format = "zst"
	FormatPlain Format = "plain"
)

// FormatOf picks the format from a path's extension
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bz2":
		return FormatBzip2
	case ".gz", ".gzip":
		return FormatGzip
	case ".zst", ".zstd":
		return FormatZstd
	default:
		return FormatPlain
	}
}

func threadArg(flag string, threads int) string {
	if threads <= 0 {
		threads = 1
	}
	return flag + strconv.Itoa(threads)
}

// DecompressCandidates lists the tools able to stream path to stdout, fastest first
// Plain files have no external candidate; they are always read in-process
func DecompressCandidates(path string, threads int) []Command {
	switch FormatOf(path) {
	case FormatBzip2:
		return []Command{
			{Tool: "pbzip2", Args: []string{threadArg("-p", threads), "-dc"}},
			{Tool: "lbzip2", Args: []string{threadArg("-n", threads), "-dc"}},
			{Tool: "bzip2", Args: []string{"-dc"}},
		}
	case FormatGzip:
		return []Command{
			{Tool: "pigz", Args: []string{threadArg("-p", threads), "-dc"}},
			{Tool: "gzip", Args: []string{"-dc"}},
		}
	case FormatZstd:
		return []Command{
			{Tool: "zstd", Args: []string{threadArg("-T", threads), "-dc"}},
		}
	default:
		return nil
	}
}

// CompressCommand is the zstd invocation writing out itself
// Levels above 19 need --ultra
func CompressCommand(out string, level int) Command {
	args := []string{"-T0"}
	if level > 19 {
		args = append(args, "--ultra")
	}
	args = append(args, "-"+strconv.Itoa(level), "-f", "-o", out)
	return Command{Tool: "zstd", Args: args}
}

// Prefer reorders cands by the names in prefs and drops the rest
// An empty prefs keeps cands as is; Builtin is kept as a pseudo command with no args
func Prefer(cands []Command, prefs []string) []Command {
	if len(prefs) == 0 {
		return cands
	}
	out := make([]Command, 0, len(prefs))
	for _, p := range prefs {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == Builtin {
			out = append(out, Command{Tool: Builtin})
			continue
		}
		for _, c := range cands {
			if c.Tool == p {
				out = append(out, c)
			}
		}
	}
	return out
}

// Resolve returns the first candidate present on PATH, with its absolute path
// Builtin always resolves, with an empty path
func Resolve(cands []Command) (Command, string, error) {
	tried := make([]string, 0, len(cands))
	for _, c := range cands {
		if c.Tool == Builtin {
			return c, "", nil
		}
		tried = append(tried, c.Tool)
		if p, err := exec.LookPath(c.Tool); err == nil {
			return c, p, nil
		}
	}
	if len(tried) == 0 {
		return Command{}, "", perr.MissingToolf("codec: no candidate tools configured")
	}
	return Command{}, "", perr.MissingToolf("codec: none of %s found on PATH", strings.Join(tried, ", "))
}
