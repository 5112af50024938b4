package store

// ItemAnnotations loads the persisted annotations of one item: a GeoJSON
// FeatureCollection per vector layer, and the overlay rows for raster layers.
func (s *Store) ItemAnnotations(itemID string) ([]map[string]interface{}, error) {
	annotations := []map[string]interface{}{}

	layers, err := s.Search(SearchSpec{
		Type: "layer",
		Filters: map[string][]FieldFilter{
			"item": {{Field: "id", Value: itemID}},
		},
	}, SearchOptions{})
	if err != nil {
		return nil, err
	}

	for _, layer := range layers {
		layerID, _ := layer["id"].(string)
		layerName, _ := layer["name"].(string)

		features, err := s.SearchFeatures(SearchSpec{
			Type: "structure",
			Filters: map[string][]FieldFilter{
				"structure": {{Field: "layer", Value: layerID}},
			},
		}, SearchOptions{})
		if err != nil {
			return nil, err
		}

		if len(features) > 0 {
			annotations = append(annotations, map[string]interface{}{
				"type": "FeatureCollection",
				"properties": map[string]interface{}{
					"name": layerName,
					"_id":  layerID,
				},
				"features": features,
			})
			continue
		}

		// No structures; the layer may carry a raster overlay instead
		overlays, err := s.Search(SearchSpec{
			Type: "image_overlay",
			Filters: map[string][]FieldFilter{
				"image_overlay": {{Field: "layer", Value: layerID}},
			},
		}, SearchOptions{})
		if err != nil {
			return nil, err
		}
		annotations = append(annotations, overlays...)
	}

	return annotations, nil
}
