package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/speedwagon-io/crowdwatch/internal/config"
	"github.com/speedwagon-io/crowdwatch/internal/model"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

type Header struct {
	Title     string
	LeftLogo  string
	RightLogo string
}

type Page struct {
	Header Header
	Cards  []*Card
}

func Assemble(header Header, cards []*Card) *Page {
	return &Page{
		Header: header,
		Cards:  cards,
	}
}

func (p *Page) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page.html", p); err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}

// Builder turns a snapshot into the page served for the life of the process.
type Builder struct {
	log    *slog.Logger
	header Header
	alerts []Alert
}

func NewBuilder(log *slog.Logger, cfg config.PageConfig) *Builder {
	return &Builder{
		log: log,
		header: Header{
			Title:     cfg.Title,
			LeftLogo:  cfg.LeftLogo,
			RightLogo: cfg.RightLogo,
		},
		alerts: AlertsFromConfig(cfg.Alerts),
	}
}

func (b *Builder) Build(snapshot *model.Snapshot) (*Page, error) {
	cards := make([]*Card, 0, len(snapshot.Sensors))
	for _, sensor := range snapshot.Sensors {
		card, err := ComposeCard(sensor, b.alerts)
		if err != nil {
			return nil, cardError(sensor, err)
		}

		b.log.Debug("card composed",
			slog.String("sensor", sensor.SensorDesc),
			slog.String("emotion", card.Emotion.Label),
		)

		cards = append(cards, card)
	}

	return Assemble(b.header, cards), nil
}
