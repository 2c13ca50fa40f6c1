package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/printproject/internal/commands"
	"github.com/temirov/printproject/internal/config"
	"github.com/temirov/printproject/internal/detect"
	"github.com/temirov/printproject/internal/filter"
	"github.com/temirov/printproject/internal/output"
	"github.com/temirov/printproject/internal/tokenizer"
	"github.com/temirov/printproject/internal/utils"
)

const (
	logConfigurationLoaded = "configuration loaded"
	logFileClassified      = "file classified"
	logDirectoryPruned     = "directory skipped"
	logDocumentWritten     = "document written"
	logClipboardCopied     = "document copied to clipboard"
	logClipboardFailed     = "clipboard copy failed"

	fieldPath           = "path"
	fieldClassification = "classification"
	fieldReason         = "reason"
	fieldBytes          = "bytes"

	directorySuffix = "/"
)

// runProject resolves the configuration, scans the project and publishes the document.
func runProject(command *cobra.Command, dependencies Dependencies, configurationPath string, flagLayer config.Values) error {
	lookup := dependencies.ConfigLookup
	lookup.ExplicitFilePath = configurationPath
	configurationFile, findError := config.FindConfigurationFile(lookup)
	if findError != nil {
		return findError
	}
	var fileLayer config.Values
	if configurationFile != "" {
		loadedLayer, loadError := config.LoadFile(configurationFile)
		if loadError != nil {
			return loadError
		}
		fileLayer = loadedLayer
	}

	settings, resolveError := config.Resolve(fileLayer, flagLayer)
	if resolveError != nil {
		return resolveError
	}

	logger, loggerError := dependencies.NewLogger(settings.Console)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer func() { _ = logger.Sync() }()
	if configurationFile != "" {
		logger.Debug(logConfigurationLoaded, zap.String(fieldPath, configurationFile))
	}

	engine, engineError := filter.New(settings.Scan)
	if engineError != nil {
		return engineError
	}
	detector := detect.NewDetector(settings.Scan.TrustedExtensions, settings.Scan.Detection)

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if settings.Tokens {
		createdCounter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.Model})
		if counterError != nil {
			return counterError
		}
		tokenCounter = createdCounter
		tokenModel = resolvedModel
	}

	progress := newProgress(command, settings.Console)
	assembler := commands.NewAssembler(settings.Scan, engine, detector, commands.AssemblerOptions{
		Now:          dependencies.Now,
		TokenCounter: tokenCounter,
		TokenModel:   tokenModel,
		Observer:     newScanObserver(logger, progress),
		Logger:       logger,
	})
	result, scanError := assembler.Run(command.Context())
	progress.Clear()
	if scanError != nil {
		return scanError
	}

	document := output.RenderDocument(result, settings.Scan, output.DocumentMeta{GeneratedAt: result.StartedAt})

	var destination string
	if settings.Stdout {
		if _, writeError := fmt.Fprint(command.OutOrStdout(), document); writeError != nil {
			return writeError
		}
	} else {
		writtenPath, writeError := output.WriteDocument(output.DestinationOptions{
			Directory: settings.OutputDirectory,
			BaseName:  settings.OutputName,
			Overwrite: settings.Overwrite,
		}, result.ProjectName, result.StartedAt, document)
		if writeError != nil {
			return writeError
		}
		destination = writtenPath
		logger.Debug(logDocumentWritten, zap.String(fieldPath, destination), zap.Int(fieldBytes, len(document)))
	}

	if settings.Clipboard {
		if copyError := dependencies.Clipboard.Copy(document); copyError != nil {
			logger.Warn(logClipboardFailed, zap.Error(copyError))
		} else {
			logger.Debug(logClipboardCopied, zap.Int(fieldBytes, len(document)))
		}
	}

	output.WriteReport(command.ErrOrStderr(), output.RunReport{
		Result:      result,
		Config:      settings.Scan,
		Destination: destination,
		OutputSize:  int64(len(document)),
	})
	return nil
}

// newProgress returns a progress line on the command's error stream when console
// mode is on and that stream is a terminal.
func newProgress(command *cobra.Command, console bool) *output.Progress {
	if !console {
		return output.NewProgress(nil)
	}
	errorStream, isFile := command.ErrOrStderr().(*os.File)
	if !isFile {
		return output.NewProgress(nil)
	}
	return output.NewProgress(errorStream)
}

// newScanObserver logs every decision at debug level, keeping the progress line below the log.
func newScanObserver(logger *zap.Logger, progress *output.Progress) commands.Observer {
	return func(event commands.Event) {
		progress.Clear()
		switch event.Kind {
		case commands.EventFileClassified:
			fields := []zap.Field{
				zap.String(fieldPath, event.RelativePath),
				zap.String(fieldClassification, string(event.Entry.Classification)),
			}
			if event.Entry.Reason != "" {
				fields = append(fields, zap.String(fieldReason, event.Entry.Reason))
			}
			logger.Debug(logFileClassified, fields...)
			progress.Update(event.Index, event.Total, event.RelativePath)
		case commands.EventDirectoryPruned:
			logger.Debug(logDirectoryPruned, zap.String(fieldPath, event.RelativePath+directorySuffix))
		}
	}
}
