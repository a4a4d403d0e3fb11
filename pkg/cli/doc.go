/*
Package cli provides command-line interface utilities for Prism.

The cli package includes output formatters, typed command errors, and
signal helpers used by the prism command.

Output Formatting:

Command results can be rendered as plain text or JSON:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Command Errors:

Commands wrap failures in typed errors so callers can distinguish
configuration problems from execution failures:

	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", err.Error())
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	sigChan := cli.WaitForShutdown()
	<-sigChan
	// begin shutdown
*/
package cli
