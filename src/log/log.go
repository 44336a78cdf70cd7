package log

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yuhaohwang/bilistream-hook/src/configs"
	"github.com/yuhaohwang/bilistream-hook/src/instance"
	"github.com/yuhaohwang/bilistream-hook/src/interfaces"
)

const lastLogName = "bilistream-hook.log"

// New 根据实例中的配置创建日志记录器，并挂到实例上。
func New(ctx context.Context) *interfaces.Logger {
	inst := instance.GetInstance(ctx)
	logger := NewWithConfig(inst.Config, os.Stderr)
	inst.Logger = logger
	return logger
}

// NewWithConfig 创建日志记录器，输出到 out 以及配置中指定的日志文件。
func NewWithConfig(config *configs.Config, out io.Writer) *interfaces.Logger {
	logLevel := logrus.InfoLevel
	if config.Debug {
		logLevel = logrus.DebugLevel
	}

	writers := []io.Writer{out}
	outputFolder := config.Log.OutPutFolder
	if config.Log.SaveEveryLog || config.Log.SaveLastLog {
		if _, err := os.Stat(outputFolder); os.IsNotExist(err) {
			log.Fatalf("错误: \"%s\", 无法确定日志输出文件夹: %s", err, outputFolder)
		}
	}

	// 每次运行单独一个日志文件。
	if config.Log.SaveEveryLog {
		runID := time.Now().Format("run-2006-01-02-15-04-05")
		logLocation := filepath.Join(outputFolder, runID+".log")
		logFile, err := os.OpenFile(logLocation, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatalf("无法打开日志文件 %s 以进行输出: %s", logLocation, err)
		}
		writers = append(writers, logFile)
	}

	if config.Log.SaveLastLog {
		logLocation := filepath.Join(outputFolder, lastLogName)
		logFile, err := os.OpenFile(logLocation, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			log.Fatalf("无法打开默认日志文件 %s 以进行输出: %s", logLocation, err)
		}
		writers = append(writers, logFile)
	}

	return &interfaces.Logger{Logger: &logrus.Logger{
		Out: io.MultiWriter(writers...),
		Formatter: &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		},
		Hooks: make(logrus.LevelHooks),
		Level: logLevel,
	}}
}
