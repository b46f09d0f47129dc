package gamedata

import "fmt"

// RuleDef is one guarded rule of an AI profile as written in ai_profiles.yaml.
//
// Exactly one of If or Always is set:
//
//	- if: hp_below
//	  percent: 30
//	  then: Mend
//	- always: Attack
type RuleDef struct {
	If      string `yaml:"if,omitempty"`
	Percent uint8  `yaml:"percent,omitempty"`
	Then    string `yaml:"then,omitempty"`
	Always  string `yaml:"always,omitempty"`
}

// ProfileDef is an ordered rule list.
type ProfileDef struct {
	Logic []RuleDef `yaml:"logic"`
}

// ProfilesFile represents the structure of ai_profiles.yaml.
type ProfilesFile struct {
	Profiles map[string]ProfileDef `yaml:"profiles"`
}

// LoadProfiles loads AI profiles from the embedded ai_profiles.yaml file.
func LoadProfiles() (map[string]ProfileDef, error) {
	file, err := LoadYAML[ProfilesFile]("ai_profiles.yaml")
	if err != nil {
		return nil, err
	}
	for name, p := range file.Profiles {
		for i, r := range p.Logic {
			if (r.If == "") == (r.Always == "") {
				return nil, fmt.Errorf("profile %s rule %d: exactly one of if/always is required", name, i)
			}
		}
	}
	return file.Profiles, nil
}
