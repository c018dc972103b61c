/*
Dmk starts an interactive dmscript interpreter session or runs a script file.

With no script path, it reads source lines at a prompt and prints the result
of each evaluated statement. With a script path, the file is read as one
complete program and evaluated; nothing is echoed and the exit code reports
whether evaluation succeeded.

Usage:

	dmk [flags] [script-path]

The flags are:

	-h, --help
		Print this usage summary and then exit.

	-v, --version
		Give the current version of dmk and then exit.

	-c, --command SOURCE
		Evaluate the given source text as though it had been typed at the
		prompt, print its results, and exit.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout.

	-C, --conf FILE
		Use the provided run-control file. Defaults to the file "dmk.toml" in
		the current working directory, which is not required to exist.

Once a session has started, each input line is evaluated as a complete
program. To exit the interpreter, press ctrl-D at the prompt.
*/
package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/dmk"
	"github.com/dekarrin/dmk/internal/conf"
	"github.com/dekarrin/dmk/internal/dmkerrors"
	"github.com/dekarrin/dmk/internal/version"
	"github.com/spf13/pflag"
)

const (

	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitError indicates an unsuccessful program execution due to any fatal
	// error: an unreadable script, a parse failure, or a runtime error.
	ExitError
)

var (
	returnCode  int     = ExitSuccess
	flagHelp    *bool   = pflag.BoolP("help", "h", false, "Print usage and exit")
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagCommand *string = pflag.StringP("command", "c", "", "Evaluate the given source text, print its results, and exit")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	confFile    *string = pflag.StringP("conf", "C", "", "The run-control file to load instead of \"dmk.toml\"")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			// we are panicking, make sure we dont lose the panic just because
			// we checked
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagHelp {
		fmt.Printf("Usage: dmk [flags] [script-path]\n\nFlags:\n%s", pflag.CommandLine.FlagUsages())
		return
	}

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var cfg conf.Config
	var confErr error
	if *confFile != "" {
		cfg, confErr = conf.Load(*confFile)
	} else {
		cfg, confErr = conf.LoadIfPresent(conf.DefaultPath)
	}
	if confErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", confErr.Error())
		returnCode = ExitError
		return
	}

	eng, initErr := dmk.New(os.Stdin, os.Stdout, os.Stderr, cfg, *forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitError
		return
	}
	defer eng.Close()

	args := pflag.Args()

	var err error
	switch {
	case len(args) > 0:
		err = eng.RunScript(args[0])
	case *flagCommand != "":
		err = eng.RunCommand(*flagCommand)
	default:
		err = eng.RunUntilEOF()
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", dmkerrors.FullDisplay(err))
		returnCode = ExitError
		return
	}
}
