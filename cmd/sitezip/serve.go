package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	szhttp "github.com/sitezip/sitezip/http"
)

// Run executes the serve command.
func (s *ServeCmd) Run(deps *Dependencies) error {
	handler := szhttp.NewServer(deps.Runner, deps.Logger)

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-deps.Ctx.Done()
		srv.Close()
	}()

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
