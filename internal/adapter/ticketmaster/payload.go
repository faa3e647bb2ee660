package ticketmaster

import "github.com/JakeFAU/events-aggregator/internal/event"

// discoveryResponse mirrors the slice of the Discovery v2 payload the
// adapter cares about.
type discoveryResponse struct {
	Embedded struct {
		Events []discoveryEvent `json:"events"`
	} `json:"_embedded"`
	Page struct {
		TotalPages int `json:"totalPages"`
		Number     int `json:"number"`
	} `json:"page"`
}

type discoveryEvent struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Info       string `json:"info"`
	PleaseNote string `json:"pleaseNote"`
	Dates      struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []discoveryVenue `json:"venues"`
	} `json:"_embedded"`
}

type discoveryVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
}

// toRaw flattens a Discovery event into the adapter-neutral raw record.
func (de discoveryEvent) toRaw() event.RawEvent {
	raw := event.RawEvent{
		Name:        de.Name,
		URL:         de.URL,
		Description: de.Info,
		Note:        de.PleaseNote,
		DateTime:    de.Dates.Start.DateTime,
		Date:        de.Dates.Start.LocalDate,
		Time:        de.Dates.Start.LocalTime,
	}
	if len(de.Embedded.Venues) > 0 {
		v := de.Embedded.Venues[0]
		raw.Venue = v.Name
		raw.City = v.City.Name
		raw.State = v.State.StateCode
		raw.Address = v.Address.Line1
	}
	return raw
}
