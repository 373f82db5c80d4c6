package fetch

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
)

// Session is an opaque credential blob captured out of band (a cookie
// snapshot in the browser storage-state format). The pipeline only
// threads it into the rendered fetcher; nothing else reads it.
type Session struct {
	cookies []*network.CookieParam
}

// storageState matches the subset of the snapshot format we replay.
// Fields beyond cookies (localStorage etc.) are ignored.
type storageState struct {
	Cookies []struct {
		Name     string  `json:"name"`
		Value    string  `json:"value"`
		Domain   string  `json:"domain"`
		Path     string  `json:"path"`
		Expires  float64 `json:"expires"`
		HTTPOnly bool    `json:"httpOnly"`
		Secure   bool    `json:"secure"`
	} `json:"cookies"`
}

// LoadSession reads a session snapshot file. A missing path returns
// (nil, nil): sessions are optional and most sources need none.
func LoadSession(path string) (*Session, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var state storageState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}

	s := &Session{}
	for _, c := range state.Cookies {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			param.Expires = &expires
		}
		s.cookies = append(s.cookies, param)
	}

	return s, nil
}

// CookieCount reports how many cookies the session carries
func (s *Session) CookieCount() int {
	if s == nil {
		return 0
	}
	return len(s.cookies)
}
