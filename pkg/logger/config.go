package logger

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // текстовый slog-хендлер
	BackendZap Backend = "zap" // JSON через slog-zap, с сэмплингом
)

type Config struct {
	// Метаданные сервиса
	Service    string
	Version    string
	InstanceID string

	// Управление выводом
	Level   slog.Level
	Env     Env
	Backend Backend // по умолчанию: zap для stage/prod, std для dev
	Debug   bool

	// Сэмплинг zap-ядра
	SampleInitial    int
	SampleThereafter int

	AddSource bool
}
