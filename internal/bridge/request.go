package bridge

import "github.com/arko-chat/adbridge/internal/adbridge"

// Request carries targeting for a load. Location fields are only meaningful
// when HasLocation is true.
type Request struct {
	Keywords         string
	UserDataKeywords string
	HasLocation      bool
	Latitude         float64
	Longitude        float64
	Accuracy         float64
}

func newRequest(req adbridge.AdRequest) *Request {
	r := &Request{
		Keywords:         req.Keywords,
		UserDataKeywords: req.UserDataKeywords,
	}
	if req.Location != nil {
		r.HasLocation = true
		r.Latitude = req.Location.Latitude
		r.Longitude = req.Location.Longitude
		r.Accuracy = req.Location.Accuracy
	}
	return r
}
