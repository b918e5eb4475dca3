package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

//nolint:gochecknoglobals // static palette
var (
	timeColor  = color.New(color.Faint)
	nameColor  = color.New(color.FgHiBlack, color.Bold)
	keyColor   = color.New(color.FgCyan)
	errorKey   = color.New(color.FgRed)
	levelColor = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel: color.New(color.FgBlue, color.Bold),
		zapcore.InfoLevel:  color.New(color.FgGreen, color.Bold),
		zapcore.WarnLevel:  color.New(color.FgYellow, color.Bold),
		zapcore.ErrorLevel: color.New(color.FgRed, color.Bold),
		zapcore.FatalLevel: color.New(color.FgMagenta, color.Bold),
	}
)

// prettyEncoder renders entries as a colored header line followed by one
// indented "key: value" line per field.
type prettyEncoder struct {
	zapcore.Encoder
}

func (e *prettyEncoder) Clone() zapcore.Encoder {
	return &prettyEncoder{Encoder: e.Encoder.Clone()}
}

func newPrettyLogger(cfg *zap.Config, out io.Writer) *zap.Logger {
	if out == nil {
		out = os.Stdout
	}
	enc := &prettyEncoder{Encoder: zapcore.NewJSONEncoder(cfg.EncoderConfig)}
	core := zapcore.NewCore(enc, zapcore.AddSync(out), cfg.Level)
	return zap.New(core, zap.ErrorOutput(zapcore.AddSync(os.Stderr)))
}

func (e *prettyEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}

	payload := orderedmap.New[string, any]()
	if err = json.Unmarshal(buf.Bytes(), payload); err != nil {
		// fall back to the raw JSON line
		return buf, nil //nolint:nilerr // raw line is still a valid entry
	}
	buf.Reset()

	lc, ok := levelColor[entry.Level]
	if !ok {
		lc = levelColor[zapcore.ErrorLevel]
	}

	buf.AppendString(timeColor.Sprint(entry.Time.Format("2006-01-02 15:04:05.000")))
	buf.AppendByte(' ')
	buf.AppendString(lc.Sprintf("%-5s", entry.Level.CapitalString()))
	if entry.LoggerName != "" {
		buf.AppendByte(' ')
		buf.AppendString(nameColor.Sprint(entry.LoggerName))
	}
	buf.AppendByte(' ')
	buf.AppendString(entry.Message)
	buf.AppendByte('\n')

	for pair := payload.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case messageKey, levelKey, nameKey, timeKey:
			continue
		}
		kc := keyColor
		if strings.HasPrefix(pair.Key, "error") {
			kc = errorKey
		}
		buf.AppendString("    ")
		buf.AppendString(kc.Sprint(pair.Key))
		buf.AppendString(": ")
		buf.AppendString(formatValue(pair.Value))
		buf.AppendByte('\n')
	}

	return buf, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return "null"
	case map[string]any, []any:
		raw, err := json.MarshalIndent(val, "    ", "  ")
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(raw)
	default:
		return fmt.Sprint(val)
	}
}
