package schedule

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Le1b1/intro-outro-generator/pkg/types"
	"github.com/pkg/errors"
)

// Provider supplies the talks of a run
type Provider interface {
	Talks() ([]types.Talk, error)
}

// DebugTalkID is the id of the placeholder talk
const DebugTalkID = "debug"

type debugProvider struct{}

// Debug returns a provider with a single placeholder talk
func Debug() Provider {
	return debugProvider{}
}

func (debugProvider) Talks() ([]types.Talk, error) {
	return []types.Talk{{
		ID:       DebugTalkID,
		Title:    "wallet.fail",
		Subtitle: "Hacking the most popular cryptocurrency hardware wallets",
		Persons:  []string{"Thomas Roth", "Dmitry Nedospasov", "Josh Datko"},
		Room:     "Borg",
	}}, nil
}

// Frab reads a frab/pretalx schedule.xml from a URL or a local file
type Frab struct {
	Source string
	Client *http.Client
}

// NewFrab creates a schedule provider for source
func NewFrab(source string) *Frab {
	return &Frab{
		Source: source,
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

type frabSchedule struct {
	Days []struct {
		Rooms []struct {
			Name   string      `xml:"name,attr"`
			Events []frabEvent `xml:"event"`
		} `xml:"room"`
	} `xml:"day"`
}

type frabEvent struct {
	ID       string `xml:"id,attr"`
	Title    string `xml:"title"`
	Subtitle string `xml:"subtitle"`
	Room     string `xml:"room"`
	Persons  []struct {
		Name string `xml:",chardata"`
	} `xml:"persons>person"`
}

// Talks fetches and parses the schedule
func (f *Frab) Talks() ([]types.Talk, error) {
	r, err := f.open()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Parse(r)
}

func (f *Frab) open() (io.ReadCloser, error) {
	if !strings.HasPrefix(f.Source, "http://") && !strings.HasPrefix(f.Source, "https://") {
		file, err := os.Open(f.Source)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open schedule")
		}
		return file, nil
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(f.Source)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download schedule")
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download schedule: %s returned %s", f.Source, resp.Status)
	}
	return resp.Body, nil
}

// Parse decodes a frab schedule.xml document into talks, in schedule order
func Parse(r io.Reader) ([]types.Talk, error) {
	var s frabSchedule
	if err := xml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to parse schedule")
	}

	var talks []types.Talk
	for _, day := range s.Days {
		for _, room := range day.Rooms {
			for _, ev := range room.Events {
				talk := types.Talk{
					ID:       strings.TrimSpace(ev.ID),
					Title:    strings.TrimSpace(ev.Title),
					Subtitle: strings.TrimSpace(ev.Subtitle),
					Room:     strings.TrimSpace(ev.Room),
				}
				if talk.Room == "" {
					talk.Room = room.Name
				}
				for _, p := range ev.Persons {
					if name := strings.TrimSpace(p.Name); name != "" {
						talk.Persons = append(talk.Persons, name)
					}
				}
				talks = append(talks, talk)
			}
		}
	}

	return talks, nil
}
