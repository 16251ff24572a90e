package threemf

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// SettingsPath is where slicers store plate layout and per-object settings
const SettingsPath = "Metadata/model_settings.config"

type partKey struct {
	object int
	part   int
}

// settings holds the plate layout and the extruder overrides of the
// companion metadata document
type settings struct {
	plates         []Plate
	objectExtruder map[int]int
	partExtruder   map[partKey]int
}

func emptySettings() *settings {
	return &settings{
		objectExtruder: make(map[int]int),
		partExtruder:   make(map[partKey]int),
	}
}

// partOverride returns the extruder set for child inside parent, 0 if none
func (s *settings) partOverride(parent, child int) int {
	return s.partExtruder[partKey{object: parent, part: child}]
}

// parentDefault returns the extruder set for the whole object, 0 if none
func (s *settings) parentDefault(parent int) int {
	return s.objectExtruder[parent]
}

// parseSettings reads the companion document:
//
//	<config>
//	  <object id="2">
//	    <metadata key="extruder" value="1"/>
//	    <part id="1"><metadata key="extruder" value="2"/></part>
//	  </object>
//	  <plate>
//	    <metadata key="plater_id" value="1"/>
//	    <model_instance><metadata key="object_id" value="2"/></model_instance>
//	  </plate>
//	</config>
func parseSettings(data []byte) (*settings, error) {
	s := emptySettings()
	dec := newXMLDecoder(data)

	var (
		stack   []string
		objID   int
		partID  int
		plate   *Plate
		plateNo int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name.Local)

			switch t.Name.Local {
			case "object":
				if objID, err = optionalInt(t, "id"); err != nil {
					return nil, err
				}
			case "part":
				if partID, err = optionalInt(t, "id"); err != nil {
					return nil, err
				}
			case "plate":
				plateNo++
				plate = &Plate{ID: plateNo}
			case "metadata":
				if err := s.metadata(t, parent, objID, partID, plate); err != nil {
					return nil, err
				}
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			switch t.Name.Local {
			case "object":
				objID = 0
			case "part":
				partID = 0
			case "plate":
				if plate == nil {
					break
				}
				if plate.Name == "" {
					plate.Name = fmt.Sprintf("Plate %d", plate.ID)
				}
				plate.ObjectIDs = lo.Uniq(plate.ObjectIDs)
				s.plates = append(s.plates, *plate)
				plate = nil
			}
		}
	}

	sort.SliceStable(s.plates, func(i, j int) bool {
		return s.plates[i].ID < s.plates[j].ID
	})
	return s, nil
}

func (s *settings) metadata(se xml.StartElement, parent string, objID, partID int, plate *Plate) error {
	key, _ := attr(se, "key")
	value, _ := attr(se, "value")
	value = strings.TrimSpace(value)

	switch {
	case parent == "plate" && plate != nil:
		switch key {
		case "plater_id":
			id, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("plater_id: %w", err)
			}
			plate.ID = id
		case "plater_name":
			plate.Name = value
		case "thumbnail_file":
			plate.Thumbnail = cleanPath(value)
		}

	case parent == "model_instance" && plate != nil && key == "object_id":
		id, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("object_id: %w", err)
		}
		plate.ObjectIDs = append(plate.ObjectIDs, id)

	case key == "extruder" && (parent == "object" || parent == "part"):
		extruder, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("extruder: %w", err)
		}
		if parent == "part" {
			s.partExtruder[partKey{object: objID, part: partID}] = extruder
		} else {
			s.objectExtruder[objID] = extruder
		}
	}
	return nil
}
