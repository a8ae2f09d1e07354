package post

import "github.com/zhouzirui/dali-api/pkg/utils"

// LoadSeed reads the initial posts from a JSON array file. The file may hold
// an empty array.
func LoadSeed(path string) ([]Post, error) {
	items, err := utils.LoadJSONArray[Post](path)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = items[i].Clone()
	}
	return items, nil
}
