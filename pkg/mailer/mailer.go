package mailer

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"os-tracker/pkg/config"
)

type Message struct {
	To      []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New выбирает SMTP, если задан хост, иначе письма только пишутся в лог.
func New(cfg config.MailConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		logger.Warn("SMTP_HOST не задан: письма будут только логироваться")
		return NewLogMailer(logger)
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.MailConfig
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}

	out, err := buildMessage(m.cfg.From, msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(m.cfg.Port),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp: некорректная конфигурация клиента: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp: не удалось отправить письмо %q: %w", msg.Subject, err)
	}
	return nil
}

// buildMessage собирает письмо; заголовки кодирует go-mail (RFC 2047).
func buildMessage(from string, msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("smtp: некорректный отправитель %q: %w", from, err)
	}
	if err := out.To(msg.To...); err != nil {
		return nil, fmt.Errorf("smtp: некорректный получатель: %w", err)
	}
	out.Subject(singleLine(msg.Subject))
	out.SetBodyString(mail.TypeTextPlain, msg.Body)
	return out, nil
}

// singleLine заменяет управляющие символы пробелами: тема всегда одна строка.
func singleLine(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

// logMailer - заглушка для разработки и тестов.
type logMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) Mailer {
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("!!! ИМИТАЦИЯ ОТПРАВКИ EMAIL !!!",
		zap.Strings("кому", msg.To),
		zap.String("тема", msg.Subject),
	)
	return nil
}
