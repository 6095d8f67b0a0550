package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for prompt output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isUnlocked() bool
	Setup(ctx context.Context) error
	Unlock(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Pending(ctx context.Context) error
	SavePending(ctx context.Context) error
	DismissPending(ctx context.Context) error
	report(err error)
}

const (
	helpLocked   = "Available commands: setup, unlock, help, exit"
	helpUnlocked = "Available commands: (l)ist [term], search <term>, add, edit [id], delete [id], show [id], pending, save, dismiss, logout, help, exit"
)

// runREPL reads one command per line and dispatches it until "exit",
// "quit" or end of input. Command errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("vault (%s)> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isUnlocked() {
				printlnFn(helpUnlocked)
			} else {
				printlnFn(helpLocked)
			}
		case "setup":
			cmdErr = a.Setup(ctx)
		case "unlock":
			cmdErr = a.Unlock(ctx)
		case "logout", "lock":
			cmdErr = a.Logout(ctx)
		case "l", "list":
			cmdErr = a.List(ctx, args)
		case "search", "find":
			cmdErr = a.Search(ctx, args)
		case "add":
			cmdErr = a.Add(ctx)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "delete", "rm":
			cmdErr = a.Delete(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "pending":
			cmdErr = a.Pending(ctx)
		case "save":
			cmdErr = a.SavePending(ctx)
		case "dismiss":
			cmdErr = a.DismissPending(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			a.report(cmdErr)
		}
	}
}
