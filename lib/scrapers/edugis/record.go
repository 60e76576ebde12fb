package edugis

// District is one of the two administrative areas the service covers.
type District int

const (
	DistrictHualienCity District = iota
	DistrictJianTownship
)

// Districts lists every supported district in the order results are
// merged and displayed.
var Districts = []District{DistrictHualienCity, DistrictJianTownship}

func (d District) String() string {
	switch d {
	case DistrictHualienCity:
		return "花蓮市"
	case DistrictJianTownship:
		return "吉安鄉"
	}
	return "unknown"
}

// ParseDistrict maps a stored district name back to its enum value.
func ParseDistrict(name string) (District, bool) {
	for _, d := range Districts {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

// Record is one row of the portal's school statistics table. Records
// are plain values, nothing mutates them after the parser returns.
type Record struct {
	District     District
	SchoolName   string
	Classes      int
	Students     int
	Teachers     int
	CampusArea   float64
	BuildingArea float64
	Buildings    int
}
