// Package classify holds the pure tag predicates that decide whether a raw
// way is a trail, a drivable way, or a park area, and how to name a park.
// No state, no I/O — these are cheap decision functions evaluated once per
// way or area during loading.
package classify

var trailHighways = map[string]bool{
	"path":       true,
	"footway":    true,
	"track":      true,
	"trail":      true,
	"pedestrian": true,
	"steps":      true,
}

var nonTrailFootways = map[string]bool{
	"sidewalk": true,
	"crossing": true,
}

var parkLeisure = map[string]bool{
	"park":           true,
	"nature_reserve": true,
}

var parkBoundary = map[string]bool{
	"national_park":  true,
	"protected_area": true,
}

// IsTrail reports whether tags describe a hikeable trail way.
func IsTrail(tags map[string]string) bool {
	if !trailHighways[tags["highway"]] {
		return false
	}
	return !nonTrailFootways[tags["footway"]]
}

// IsDrivable reports whether tags describe a way (or area) a car can use to
// reach a trailhead.
func IsDrivable(tags map[string]string) bool {
	if highway, ok := tags["highway"]; ok {
		if tags["motor_vehicle"] == "no" {
			return false
		}
		if tags["access"] == "no" {
			return false
		}
		access := tags["access"]
		accessible := access == "yes" || access == "permissive" || access == ""
		if highway == "service" && tags["service"] != "parking_aisle" && !accessible {
			return false
		}
		return !IsTrail(tags) && accessible
	}
	return tags["amenity"] == "parking"
}

// IsParkArea reports whether tags describe a named-park-eligible area.
func IsParkArea(tags map[string]string) bool {
	if parkLeisure[tags["leisure"]] {
		return true
	}
	return parkBoundary[tags["boundary"]]
}

// ParkName derives a display name for a park area from its tags.
func ParkName(tags map[string]string) string {
	if name, ok := tags["name"]; ok && name != "" {
		return name
	}
	if tags["landuse"] == "conservation" {
		return "Conservation area"
	}
	if tags["ownership"] == "municipal" {
		if owner, ok := tags["owner"]; ok && owner != "" {
			return owner
		}
	}
	return "Unnamed park"
}
