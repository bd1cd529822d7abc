package logrusconfig

import (
	"flag"
	"io"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

var loglevel *int

// InitParam registers the -loglevel flag on fs, or on flag.CommandLine if fs is nil
func InitParam(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	loglevel = fs.Int("loglevel", int(logrus.WarnLevel), "The loglevel to use. Valid values are from 0 to 6. Higher values output more information")
}

func clampLevel(level int) logrus.Level {
	if level < int(logrus.PanicLevel) {
		return logrus.PanicLevel
	}
	if level > int(logrus.TraceLevel) {
		return logrus.TraceLevel
	}
	return logrus.Level(level)
}

// GetLogger returns an entry writing to out whose messages are prefixed with
// component. The -loglevel flag overrides level when InitParam was called.
func GetLogger(out io.Writer, component string, level logrus.Level) *logrus.Entry {
	logrus.ErrorKey = "$error"
	logger := logrus.New()
	logger.SetOutput(out)
	if loglevel == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(clampLevel(*loglevel))
	}
	customFormatter := new(prefixed.TextFormatter)
	customFormatter.TimestampFormat = "2006-01-02 15:04:05"
	customFormatter.FullTimestamp = true
	customFormatter.PrefixPadding = 20
	customFormatter.SpacePadding = 50
	logger.SetFormatter(customFormatter)
	return logger.WithField("prefix", component)
}
