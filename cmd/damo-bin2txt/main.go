package main

import (
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirkon/errors"
	"github.com/sirkon/message"

	"github.com/piyushthange/damo/damon"
	"github.com/piyushthange/damo/internal/render"
)

type config struct {
	Input         string `short:"i" default:"damon.data" type:"existingfile" help:"Input file name."`
	Duration      window `placeholder:"START END" help:"Start and end time offset in seconds for record to parse."`
	RawNumber     bool   `name:"raw_number" help:"Use machine-friendly raw numbers."`
	Output        string `enum:"text,yaml" default:"text" help:"Output format: text or yaml."`
	Convert       string `type:"path" help:"Write the parsed result into the given record file instead of printing it."`
	FormatVersion int    `default:"2" help:"Record format version for --convert."`
	Verbose       bool   `short:"v" help:"Report parsing events."`
}

func cliOptions() []kong.Option {
	return []kong.Option{
		kong.Name("damo-bin2txt"),
		kong.Description("Convert DAMON monitoring record file into the text."),
		kong.UsageOnError(),
	}
}

func main() {
	var cfg config
	kong.Parse(&cfg, cliOptions()...)

	if err := run(cfg, os.Stdout); err != nil {
		message.Critical(err)
	}
}

// run разбор и вывод результата. Ошибка разбора не прерывает работу, если
// до неё были прочитаны снимки: она выводится, а прочитанное печатается.
func run(cfg config, out io.Writer) error {
	var opts []damon.Option
	if cfg.Verbose {
		opts = append(opts, damon.WithLogger(eventLogger{}))
	}

	res, err := parse(cfg, opts)
	if err != nil {
		err = errors.Wrap(err, "parse monitoring result file").Str("file-name", cfg.Input)
		if res.Empty() {
			return err
		}

		message.Error(err)
	}

	if res.Empty() {
		return errors.New("no monitoring result in the file").Str("file-name", cfg.Input)
	}

	if cfg.Convert != "" {
		if err := convert(cfg.Convert, damon.Version(cfg.FormatVersion), res); err != nil {
			return errors.Wrap(err, "convert monitoring result").Str("output-file-name", cfg.Convert)
		}

		return nil
	}

	switch cfg.Output {
	case "yaml":
		err = render.YAML(out, res)
	default:
		err = render.Result(out, res, cfg.RawNumber)
	}
	if err != nil {
		return errors.Wrap(err, "print monitoring result").Str("output-format", cfg.Output)
	}

	return nil
}

// parse вычитка всего файла или, если задан интервал, окна между его
// началом и концом: снимки до начала окна отбрасываются. Результат
// возвращается и вместе с ошибкой: это снимки прочитанные до неё.
func parse(cfg config, opts []damon.Option) (_ *damon.Result, err error) {
	if !cfg.Duration.set {
		res, err := damon.ParseFull(cfg.Input, opts...)
		if res == nil {
			res = damon.NewResult()
		}

		return res, err
	}

	_, cur, _, err := damon.ParseUntil(cfg.Input, nil, seconds(cfg.Duration.Start), opts...)
	if cur != nil {
		defer func() {
			if cErr := cur.Close(); cErr != nil && err == nil {
				err = errors.Wrap(cErr, "close record file")
			}
		}()
	}
	if err != nil {
		return damon.NewResult(), errors.Wrap(err, "skip records before the window")
	}

	res, _, _, err := damon.ParseUntil(cfg.Input, cur, seconds(cfg.Duration.End))
	if res == nil {
		res = damon.NewResult()
	}
	if err != nil {
		return res, errors.Wrap(err, "read records of the window")
	}

	return res, nil
}

func convert(name string, v damon.Version, res *damon.Result) (err error) {
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer func() {
		if cErr := file.Close(); cErr != nil && err == nil {
			err = errors.Wrap(cErr, "close output file")
		}
	}()

	w, err := damon.NewWriter(file, v)
	if err != nil {
		return errors.Wrap(err, "create record writer")
	}

	if err := w.WriteResult(res); err != nil {
		return errors.Wrap(err, "write records")
	}

	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "flush records")
	}

	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
