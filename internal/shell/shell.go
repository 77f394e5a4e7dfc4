// Package shell implements a line-based command interpreter on top of the
// file system API. Every file system command reports the return code of the
// call it made.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/desertwitch/simfs/internal/filesystem"
	"github.com/desertwitch/simfs/internal/layout"
	"github.com/dustin/go-humanize"
)

type fsProvider interface {
	Mkfs(deviceSize int64) error
	Mount() error
	Unmount() error
	CreateFile(path string) error
	RemoveFile(path string) error
	MkDir(path string) error
	RmDir(path string) error
	LsDir(path string) ([]filesystem.Entry, error)
	OpenFile(path string) (int, error)
	CloseFile(fd int) error
	ReadFile(fd int, buf []byte, n int) (int, error)
	WriteFile(fd int, buf []byte, n int) (int, error)
	LseekFile(fd int, offset int64, whence int) error
	Stat() filesystem.Stats
}

type command struct {
	usage string
	help  string
	run   func(h *Handler, line string, args []string) (string, error)
}

//nolint:gochecknoglobals
var commands map[string]command

//nolint:gochecknoinits
func init() {
	commands = map[string]command{
		"mkfs":   {"mkfs [SIZE]", "format the volume, SIZE like 102400 or 100KiB", (*Handler).mkfs},
		"mount":  {"mount", "write the volume to the device and mount it", (*Handler).mount},
		"umount": {"umount", "unmount the volume", (*Handler).unmount},
		"touch":  {"touch PATH", "create an empty file", pathCommand((fsProvider).CreateFile)},
		"rm":     {"rm PATH", "remove a closed file", pathCommand((fsProvider).RemoveFile)},
		"mkdir":  {"mkdir PATH", "create an empty directory", pathCommand((fsProvider).MkDir)},
		"rmdir":  {"rmdir PATH", "remove an empty directory", pathCommand((fsProvider).RmDir)},
		"ls":     {"ls [PATH]", "list a directory", (*Handler).ls},
		"open":   {"open PATH", "open a file and print its descriptor", (*Handler).open},
		"close":  {"close FD", "close a file descriptor", (*Handler).close},
		"read":   {"read FD N", "read up to N bytes", (*Handler).read},
		"write":  {"write FD TEXT", "write TEXT, which may be a quoted Go string", (*Handler).write},
		"seek":   {"seek FD OFFSET cur|end|set", "move the seek offset", (*Handler).seek},
		"df":     {"df", "show volume usage", (*Handler).df},
		"help":   {"help", "show this help", (*Handler).help},
		"exit":   {"exit", "leave the shell", (*Handler).exit},
	}
}

// Handler is the principal implementation of the command interpreter.
type Handler struct {
	fsHandler  fsProvider
	deviceSize int64
}

// NewHandler returns a pointer to a new shell [Handler]. deviceSize is used
// by mkfs when no size is given.
func NewHandler(fsHandler fsProvider, deviceSize int64) *Handler {
	return &Handler{
		fsHandler:  fsHandler,
		deviceSize: deviceSize,
	}
}

// Execute runs a single command line and returns its output. The returned
// error is the error of the underlying call, if any; its return code is part
// of the output already. Blank lines and lines starting with # do nothing.
func (h *Handler) Execute(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil
	}

	args := strings.Fields(line)

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Sprintf("unknown command %q, try help", args[0]), fmt.Errorf("(shell) %w: %s", ErrUnknownCommand, args[0])
	}

	out, err := cmd.run(h, line, args[1:])
	if errors.Is(err, ErrUsage) {
		return "usage: " + cmd.usage, fmt.Errorf("(shell) %w", err)
	}

	return out, err
}

// Run executes every line read from r and writes the output to w, until r is
// exhausted, the exit command is given or ctx is cancelled. Failing commands
// do not stop the loop.
func (h *Handler) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("(shell-run) %w", err)
		}

		out, err := h.Execute(scanner.Text())
		if errors.Is(err, ErrExit) {
			return nil
		}

		if err != nil {
			slog.Debug("Command failed",
				"line", scanner.Text(),
				"err", err,
			)
		}

		if out == "" {
			continue
		}

		if _, err := fmt.Fprintln(w, out); err != nil {
			return fmt.Errorf("(shell-run) %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("(shell-run) %w", err)
	}

	return nil
}

// result renders the return code of err, prefixed by out on success.
func result(out string, err error) (string, error) {
	code := filesystem.ReturnCode(err)

	if err != nil {
		return fmt.Sprintf("rc=%d %v", code, err), err
	}

	if out == "" {
		return fmt.Sprintf("rc=%d", code), nil
	}

	return fmt.Sprintf("%s\nrc=%d", out, code), nil
}

func pathCommand(op func(fsProvider, string) error) func(*Handler, string, []string) (string, error) {
	return func(h *Handler, _ string, args []string) (string, error) {
		if len(args) != 1 {
			return "", ErrUsage
		}

		return result("", op(h.fsHandler, args[0]))
	}
}

func parseFD(arg string) (int, error) {
	fd, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: descriptor %q", ErrUsage, arg)
	}

	return fd, nil
}

func (h *Handler) mkfs(_ string, args []string) (string, error) {
	size := h.deviceSize

	switch len(args) {
	case 0:
	case 1:
		parsed, err := humanize.ParseBytes(args[0])
		if err != nil || parsed > math.MaxInt64 {
			return "", fmt.Errorf("%w: size %q", ErrUsage, args[0])
		}
		size = int64(parsed) //nolint:gosec
	default:
		return "", ErrUsage
	}

	if err := h.fsHandler.Mkfs(size); err != nil {
		return result("", err)
	}

	return result(fmt.Sprintf("formatted %s (%d blocks)",
		humanize.IBytes(uint64(size)), size/layout.BlockSize), nil) //nolint:gosec
}

func (h *Handler) mount(_ string, args []string) (string, error) {
	if len(args) != 0 {
		return "", ErrUsage
	}

	return result("", h.fsHandler.Mount())
}

func (h *Handler) unmount(_ string, args []string) (string, error) {
	if len(args) != 0 {
		return "", ErrUsage
	}

	return result("", h.fsHandler.Unmount())
}

func (h *Handler) ls(_ string, args []string) (string, error) {
	path := layout.RootPath

	switch len(args) {
	case 0:
	case 1:
		path = args[0]
	default:
		return "", ErrUsage
	}

	entries, err := h.fsHandler.LsDir(path)
	if err != nil {
		return result("", err)
	}

	var sb strings.Builder
	for i, entry := range entries {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%c %3d %s", entry.Kind, entry.ID, entry.Name)
	}

	return result(sb.String(), nil)
}

func (h *Handler) open(_ string, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}

	fd, err := h.fsHandler.OpenFile(args[0])
	if err != nil {
		return result("", err)
	}

	return result(fmt.Sprintf("fd %d", fd), nil)
}

func (h *Handler) close(_ string, args []string) (string, error) {
	if len(args) != 1 {
		return "", ErrUsage
	}

	fd, err := parseFD(args[0])
	if err != nil {
		return "", err
	}

	return result("", h.fsHandler.CloseFile(fd))
}

func (h *Handler) read(_ string, args []string) (string, error) {
	if len(args) != 2 { //nolint:mnd
		return "", ErrUsage
	}

	fd, err := parseFD(args[0])
	if err != nil {
		return "", err
	}

	n, err := strconv.Atoi(args[1])
	if err != nil {
		return "", fmt.Errorf("%w: count %q", ErrUsage, args[1])
	}

	buf := make([]byte, min(max(n, 0), layout.BlockSize))

	read, err := h.fsHandler.ReadFile(fd, buf, n)
	if err != nil {
		return result("", err)
	}

	return result(fmt.Sprintf("%q (%d bytes)", buf[:read], read), nil)
}

func (h *Handler) write(line string, args []string) (string, error) {
	if len(args) < 2 { //nolint:mnd
		return "", ErrUsage
	}

	fd, err := parseFD(args[0])
	if err != nil {
		return "", err
	}

	// The text is everything after the descriptor, spaces included.
	_, rest, _ := strings.Cut(line, args[0])
	text := strings.TrimLeft(rest, " \t")

	if strings.HasPrefix(text, `"`) {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUsage, err)
		}
		text = unquoted
	}

	written, err := h.fsHandler.WriteFile(fd, []byte(text), len(text))
	if err != nil {
		return result("", err)
	}

	return result(fmt.Sprintf("wrote %d bytes", written), nil)
}

func (h *Handler) seek(_ string, args []string) (string, error) {
	if len(args) != 3 { //nolint:mnd
		return "", ErrUsage
	}

	fd, err := parseFD(args[0])
	if err != nil {
		return "", err
	}

	offset, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", fmt.Errorf("%w: offset %q", ErrUsage, args[1])
	}

	var whence int

	switch args[2] {
	case "cur":
		whence = filesystem.SeekCur
	case "end":
		whence = filesystem.SeekEnd
	case "set":
		whence = filesystem.SeekBegin
	default:
		return "", fmt.Errorf("%w: origin %q", ErrUsage, args[2])
	}

	return result("", h.fsHandler.LseekFile(fd, offset, whence))
}

func (h *Handler) df(_ string, args []string) (string, error) {
	if len(args) != 0 {
		return "", ErrUsage
	}

	stats := h.fsHandler.Stat()
	if !stats.Formatted {
		return "not formatted", nil
	}

	state := "unmounted"
	if stats.Mounted {
		state = "mounted"
	}

	return fmt.Sprintf("volume %s (%s)\n"+
		"device %s in %d blocks\n"+
		"inodes %d used, %d free\n"+
		"data   %s of %s used (%d/%d blocks)",
		stats.VolumeID, state,
		humanize.IBytes(uint64(stats.PartitionBlocks*layout.BlockSize)), stats.PartitionBlocks, //nolint:gosec
		stats.Items, stats.FreeInodes,
		humanize.IBytes(uint64(stats.UsedDataBlocks*layout.BlockSize)), //nolint:gosec
		humanize.IBytes(uint64(stats.DataBlocks*layout.BlockSize)),     //nolint:gosec
		stats.UsedDataBlocks, stats.DataBlocks,
	), nil
}

func (h *Handler) help(_ string, _ []string) (string, error) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%-28s %s", commands[name].usage, commands[name].help)
	}

	return sb.String(), nil
}

func (h *Handler) exit(_ string, _ []string) (string, error) {
	return "", ErrExit
}
