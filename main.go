package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"functools/args"
	"functools/socket"
)

func main() {
	// set logs output to stderr
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "functools",
		Short:         "DNS tools backed by memoized lookups and LRU answer caches",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newResolveCmd(), newReflectCmd(), newForwardCmd())
	return rootCmd
}

func newResolveCmd() *cobra.Command {
	var cmdArgs args.CmdArgs
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve records of the given hosts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmdArgs.Validate(); err != nil {
				return err
			}
			r, err := newResolv(&cmdArgs)
			if err != nil {
				return err
			}
			for _, resp := range r.resolveAll(cmdArgs.Hosts) {
				fmt.Fprintln(cmd.OutOrStdout(), resp)
			}
			return nil
		},
	}
	cmdArgs.Flags(cmd.Flags())
	return cmd
}

func newReflectCmd() *cobra.Command {
	var reflectorArgs args.ReflectorArgs
	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Serve DNS, answering repeated questions from an LRU cache",
		RunE: func(*cobra.Command, []string) error {
			if err := reflectorArgs.Validate(); err != nil {
				return err
			}
			r, err := NewReflector(&reflectorArgs)
			if err != nil {
				return err
			}

			errs := make(chan error, 1)
			go func() { errs <- r.Serve() }()
			select {
			case err := <-errs:
				return fmt.Errorf("reflector stopped: %w", err)
			case <-interrupted():
				return r.Shutdown()
			}
		},
	}
	reflectorArgs.Flags(cmd.Flags())
	return cmd
}

func newForwardCmd() *cobra.Command {
	var socketArgs args.SocketArgs
	cmd := &cobra.Command{
		Use:   "forward",
		Short: "Forward raw UDP DNS queries, answering repeated questions from an LRU cache",
		RunE: func(*cobra.Command, []string) error {
			s, err := socket.NewSocket(socketArgs)
			if err != nil {
				return fmt.Errorf("open socket: %w", err)
			}
			s.ListenAndServe()
			<-interrupted()
			return s.Close()
		},
	}
	socketArgs.Flags(cmd.Flags())
	return cmd
}

func interrupted() <-chan os.Signal {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	return sig
}
