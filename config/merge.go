package config

// mergeDocuments merges override into base. Nested sections merge key by
// key; lists and scalars in override replace the base value.
func mergeDocuments(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}

	for key, value := range override {
		if baseValue, exists := result[key]; exists {
			if baseMap, baseOk := baseValue.(map[string]interface{}); baseOk {
				if overrideMap, overrideOk := value.(map[string]interface{}); overrideOk {
					result[key] = mergeDocuments(baseMap, overrideMap)
					continue
				}
			}
		}
		result[key] = value
	}

	return result
}
