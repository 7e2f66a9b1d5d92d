package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/usherasnick/ctrlz/compress"
	"github.com/usherasnick/ctrlz/fwriter"
	streamio "github.com/usherasnick/ctrlz/stream-io"
)

type readerFactory func(io.Reader) *streamio.CtrlZBufReader

func catAll(ctx context.Context, w io.Writer, stdin io.Reader, args []string, newReader readerFactory) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, name := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := catOne(w, stdin, name, newReader); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func catOne(w io.Writer, stdin io.Reader, name string, newReader readerFactory) error {
	src := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	r := newReader(src)
	n, err := io.Copy(w, r)
	if err != nil {
		return err
	}
	log.Debug().Str("file", name).Int64("bytes", n).Bool("ctrlz", r.Terminated()).Msg("cat")
	return nil
}

func rewriteAll(ctx context.Context, args []string, jobs int, newReader readerFactory) error {
	if len(args) == 0 {
		return ErrNoInput
	}
	for _, name := range args {
		if name == "-" {
			return ErrStdinInPlace
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, name := range args {
		name := name // per-iteration copy (go.mod targets go1.21)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stat, err := fwriter.Rewrite(name, func(r io.Reader) io.Reader {
				return newReader(r)
			})
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if stat.After < stat.Before {
				log.Info().Msgf("%s: truncated at CTRL-Z, %d -> %d bytes", name, stat.Before, stat.After)
			} else {
				log.Debug().Msgf("%s: no CTRL-Z, %d bytes kept", name, stat.After)
			}
			return nil
		})
	}
	return g.Wait()
}

func unzipAll(ctx context.Context, dst string, args []string, newReader readerFactory) error {
	if len(args) == 0 {
		return ErrNoInput
	}
	filter := compress.WithEntryFilter(func(_ string, r io.Reader) io.Reader {
		return newReader(r)
	})
	for _, name := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := compress.Unzip(dst, name, filter); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		log.Info().Msgf("extracted %s into %s", name, dst)
	}
	return nil
}
