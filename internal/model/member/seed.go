package member

import "github.com/zhouzirui/dali-api/pkg/utils"

// LoadSeed reads the initial member roster from a JSON array file.
func LoadSeed(path string) ([]Member, error) {
	return utils.LoadJSONArray[Member](path)
}
