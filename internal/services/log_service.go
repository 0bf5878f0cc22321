package services

import (
	"Drive/internal/config"
	"fmt"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LogService struct {
	Log *logrus.Logger
}

func NewLogService(configuration *config.Configuration) LogService {
	log := logrus.New()
	logConfig := configuration.Server.LogConfig
	setLogOutput(logConfig, log)
	setLogLevel(logConfig, log)
	setLogFormatter(logConfig, log)
	return LogService{
		Log: log,
	}
}

// Job returns an entry tagged with the background job it belongs to.
func (l LogService) Job(name string) *logrus.Entry {
	return l.Log.WithField("job", name)
}

func setLogFormatter(logConfig config.LogConfig, log *logrus.Logger) {
	switch logConfig.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func setLogLevel(logConfig config.LogConfig, log *logrus.Logger) {
	level, err := logrus.ParseLevel(strings.ToLower(logConfig.Level))
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		return
	}
	log.SetLevel(level)
}

func setLogOutput(logConfig config.LogConfig, log *logrus.Logger) {
	switch logConfig.Output {
	case "file":
		logFolder := strings.TrimRight(logConfig.LogPath, "/")
		logName := fmt.Sprintf("%s-%s.log", "drive", time.Now().Format("2006-01-02"))
		file, err := os.OpenFile(filepath.Join(logFolder, logName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal(err)
		}
		log.SetOutput(file)
	default:
		log.SetOutput(os.Stdout)
	}
}
