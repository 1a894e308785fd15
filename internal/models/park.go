package models

import "github.com/greenbelt/trailcore/internal/geo"

// Park is a named polygon used only to name networks.
type Park struct {
	ID      int64
	Polygon geo.Polygon
	Name    string
	Tags    map[string]string
}
