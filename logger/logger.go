package logger

import (
	"os"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/naevtamarkus/homeassistant-statistics-cli/config"
)

var (
	mutexLogging sync.Mutex
	lineCounter  = 0
)

type Impl struct {
	LogFile        *os.File
	MaxLogfileSize int64
}

type Logger interface {
	Fatal(err error)
	Error(logMessage error)
	ErrorWithText(logMessage string)
	Warn(logMessage string)
	Info(logMessage string)
	Debug(logMessage string)

	Close()
}

// NewLogger configures logrus and returns the logger used by every command.
// When logFileName is empty all log lines go to stderr so they never mix with
// the table/CSV output written to stdout. With a log file the file is
// archived and replaced once it grows past maxLogfileSize megabytes.
var NewLogger = func(logFileName string, maxLogfileSize int64, debug bool) (Logger, error) {
	log.SetFormatter(&log.TextFormatter{QuoteEmptyFields: true, FullTimestamp: true})
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	impl := &Impl{MaxLogfileSize: maxLogfileSize}
	if logFileName == "" {
		return impl, nil
	}

	logFile, err := os.OpenFile(logFileName, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		// Cannot open log file. Logging to stderr
		log.Error(err)
		return impl, err
	}
	log.SetOutput(logFile)
	impl.LogFile = logFile

	return impl, nil
}

func (i *Impl) ErrorWithText(logMessage string) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	log.Error(logMessage)
	i.rotateIfTooLarge()
}

func (i *Impl) Error(err error) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	log.Error(err)
	i.rotateIfTooLarge()
}

func (i *Impl) Warn(logMessage string) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	log.Warn(logMessage)
	i.rotateIfTooLarge()
}

func (i *Impl) Info(logMessage string) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	log.Info(logMessage)
	i.rotateIfTooLarge()
}

func (i *Impl) Debug(logMessage string) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	log.Debug(logMessage)
	i.rotateIfTooLarge()
}

func (i *Impl) Fatal(err error) {
	mutexLogging.Lock()
	defer mutexLogging.Unlock()

	lineCounter++

	log.Fatal(err)
}

func (i *Impl) rotateIfTooLarge() {
	if !i.logFileIsTooLarge() {
		return
	}
	err := i.replaceLogFile()
	if err != nil {
		log.Error(err)
	}
}

func (i *Impl) replaceLogFile() error {

	log.Info("Archiving existing log file")

	// Replace the log file
	name := i.LogFile.Name()
	err := i.LogFile.Close()
	if err != nil {
		return err
	}
	newFileName := name + "." + time.Now().Format(config.GetFileDateLayout())
	err = os.Rename(name, newFileName)
	if err != nil {
		i.LogFile, _ = os.OpenFile(name, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		return err
	}
	// Create a new file
	i.LogFile, err = os.OpenFile(name, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	log.SetOutput(i.LogFile)
	return nil
}

func (i *Impl) logFileIsTooLarge() bool {
	if i.LogFile == nil || lineCounter < 100 {
		return false
	}
	lineCounter = 0

	fileInfo, err := os.Stat(i.LogFile.Name())
	if err != nil {
		log.Error("Error:", err)
		return false
	}
	return fileInfo.Size()/(1024*1024) >= i.MaxLogfileSize
}

func (i *Impl) Close() {
	//Don't forget to close the log file
	if i.LogFile != nil {
		i.LogFile.Close()
		log.SetOutput(os.Stderr)
	}
}
