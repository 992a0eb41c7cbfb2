package trip

import "encoding/json"

// Mode is the transport mode sent to the planning endpoint.
type Mode string

const (
	ModeDrive      Mode = "DRIVE"
	ModeWalk       Mode = "WALK"
	ModeTransit    Mode = "TRANSIT"
	ModeBicycle    Mode = "BICYCLE"
	ModeTwoWheeler Mode = "TWO_WHEELER"
)

// Modes lists all selectable transport modes in display order.
var Modes = []Mode{ModeDrive, ModeWalk, ModeTransit, ModeBicycle, ModeTwoWheeler}

// ParseMode normalizes a mode string, falling back to DRIVE for anything unknown.
func ParseMode(s string) Mode {
	for _, m := range Modes {
		if string(m) == s {
			return m
		}
	}
	return ModeDrive
}

// Input is the user-editable session input for a plan request.
type Input struct {
	Start string
	End   string
	Mode  Mode
}

// Plan is the result of a successful plan request. MapFile and DataFile anchor
// the downstream map embed and guide generation; any additional trip fields the
// service returns are kept opaquely in Extra.
type Plan struct {
	MapFile  string
	DataFile string
	Message  string
	Extra    map[string]json.RawMessage
}

// planResponse is the wire shape of a successful POST /plan-trip.
type planResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	MapFile  string `json:"map_file"`
	DataFile string `json:"data_file"`
}

// guideResponse is the wire shape of a successful POST /generate-guide.
type guideResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	PDFFile string `json:"pdf_file"`
}

// planRequest is the wire shape of the plan request body.
type planRequest struct {
	StartPoint    string `json:"start_point"`
	EndPoint      string `json:"end_point"`
	TransportMode string `json:"transport_mode"`
}

// guideRequest is the wire shape of the guide request body.
type guideRequest struct {
	DataFile string `json:"data_file"`
}
