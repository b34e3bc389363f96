package main

import (
	"context"

	"gitlab.com/transcodeuz/subtitle-translator/config"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/handler"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/logger"
	"gitlab.com/transcodeuz/subtitle-translator/pkg/rabbitmq"
	"gitlab.com/transcodeuz/subtitle-translator/tools/ffmpeg"
	"gitlab.com/transcodeuz/subtitle-translator/tools/storage"
	"gitlab.com/transcodeuz/subtitle-translator/tools/transcriber"
	"gitlab.com/transcodeuz/subtitle-translator/tools/translator"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, "subtitle_translator_service")

	log.Info("configuration and logger is setup...")

	rbMQ, err := rabbitmq.New(&cfg, log)
	if err != nil {
		log.Error("Error while creating rabbitMq object...", logger.Error(err))
		return
	}

	// We need to close the channel if we have opened it
	defer rbMQ.Channel.Close()

	fileStorage := storage.NewFileStorage(&cfg, log)
	log.Info("storage is created...")

	mediaTool := ffmpeg.NewFFmpeg(&cfg, log)
	log.Info("media tool is created...")

	whisper := transcriber.NewWhisper(&cfg, log)
	papago := translator.New(&cfg, log)

	handlerObj := handler.NewHandler(handler.Options{
		Config:       &cfg,
		Log:          log,
		LocalStorage: fileStorage,
		Transcriber:  whisper,
		Translator:   papago,
		Renderer:     mediaTool,
		RabbitMQ:     rbMQ,
	})

	handlerObj.ListenNotifications(context.Background())
}
