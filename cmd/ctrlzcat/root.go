package main

import (
	"errors"
	"io"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/usherasnick/ctrlz/bwctrl"
	streamio "github.com/usherasnick/ctrlz/stream-io"
)

const (
	envPrefix = "CTRLZCAT"

	__DefaultBufferSize = 32 * 1024
	__MinBufferSize     = 16
)

var (
	ErrConflictingModes = errors.New("--in-place and --unzip are mutually exclusive")
	ErrStdinInPlace     = errors.New("stdin cannot be rewritten in place")
	ErrNoInput          = errors.New("no input files")
)

type options struct {
	inPlace    bool
	jobs       int
	unzipDir   string
	bwlimit    int64
	bufferSize int
	verbose    bool
}

// newReader 为输入流套上限速与CtrlZ截断.
func (o *options) newReader(ctrl *bwctrl.BandwidthController) func(io.Reader) *streamio.CtrlZBufReader {
	return func(r io.Reader) *streamio.CtrlZBufReader {
		return streamio.NewCtrlZBufReader(streamio.NewBufReader(ctrl.Reader(r), o.bufferSize))
	}
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ctrlzcat [flags] [FILE...]",
		Short: "Print files up to their first CTRL-Z (0x1A) byte",
		Long: `Print files up to their first CTRL-Z (0x1A) byte.
Legacy text formats mark the logical end of file with 0x1A; the byte itself and
everything after it are dropped. With no FILE, or when FILE is -, read stdin.

Examples:
  ctrlzcat legacy.txt > clean.txt
  ctrlzcat --in-place --jobs 4 *.txt
  ctrlzcat --unzip ./out archive.zip

Every flag can also be set through the environment, e.g. CTRLZCAT_BWLIMIT=1048576.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addFlags(cmd.Flags())
	v := bindOptions(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts := loadOptions(v)
		if opts.verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		newReader := opts.newReader(bwctrl.NewBandwidthController(opts.bwlimit))

		switch {
		case opts.inPlace && opts.unzipDir != "":
			return ErrConflictingModes
		case opts.unzipDir != "":
			return unzipAll(cmd.Context(), opts.unzipDir, args, newReader)
		case opts.inPlace:
			return rewriteAll(cmd.Context(), args, opts.jobs, newReader)
		default:
			return catAll(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), args, newReader)
		}
	}
	return cmd
}

func addFlags(fs *pflag.FlagSet) {
	fs.BoolP("in-place", "w", false, "rewrite each FILE atomically instead of printing it")
	fs.IntP("jobs", "j", runtime.NumCPU(), "number of files rewritten concurrently with --in-place")
	fs.String("unzip", "", "treat each FILE as a zip archive and extract it into this directory")
	fs.Int64("bwlimit", 0, "limit input bandwidth in bytes per second, 0 means unlimited")
	fs.Int("buffer-size", __DefaultBufferSize, "read buffer size in bytes")
	fs.BoolP("verbose", "v", false, "enable debug logging")
}

// bindOptions 优先级: 命令行 > 环境变量 > 默认值.
func bindOptions(fs *pflag.FlagSet) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(fs)
	return v
}

func loadOptions(v *viper.Viper) *options {
	opts := &options{
		inPlace:    v.GetBool("in-place"),
		jobs:       v.GetInt("jobs"),
		unzipDir:   v.GetString("unzip"),
		bwlimit:    v.GetInt64("bwlimit"),
		bufferSize: v.GetInt("buffer-size"),
		verbose:    v.GetBool("verbose"),
	}
	if opts.jobs <= 0 {
		opts.jobs = runtime.NumCPU()
	}
	if opts.bufferSize < __MinBufferSize {
		opts.bufferSize = __MinBufferSize
	}
	return opts
}
