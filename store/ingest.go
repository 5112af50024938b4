package store

import (
	log "github.com/sirupsen/logrus"
)

// SlideDescription is the fully-resolved slide produced by the remote-archive
// client: base metadata plus processed annotation layers, each either a vector
// feature collection or a raster overlay.
type SlideDescription struct {
	ID                   string                 `json:"id"`
	Name                 string                 `json:"name"`
	Metadata             map[string]interface{} `json:"metadata"`
	ImageMetadata        map[string]interface{} `json:"image_metadata"`
	AnnotationsMetadata  map[string]interface{} `json:"annotations_metadata"`
	ImageFilepath        string                 `json:"image_filepath"`
	ProcessedAnnotations []AnnotationLayer      `json:"processed_annotations"`
	UserID               string                 `json:"user,omitempty"`
	VisSessionID         string                 `json:"session,omitempty"`
}

// AnnotationLayer is one processed layer. ImagePath set means a raster
// overlay; otherwise Features holds the vector structures.
type AnnotationLayer struct {
	Properties      LayerProperties        `json:"properties"`
	Features        []Feature              `json:"features,omitempty"`
	ImageBounds     []float64              `json:"image_bounds,omitempty"`
	ImageProperties map[string]interface{} `json:"image_properties,omitempty"`
	ImagePath       string                 `json:"image_path,omitempty"`
}

// LayerProperties identifies a layer within the slide description.
type LayerProperties struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Feature is one vector structure of a layer. Properties carries the
// structure id under "_id".
type Feature struct {
	Geometry   map[string]interface{} `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

func (f Feature) id() string {
	id, _ := f.Properties["_id"].(string)
	return id
}

// AddSlide materializes one slide into the store in dependency order: the
// item, then per layer either one image overlay or its structures. Built on
// GetCreate throughout, so re-ingesting the same slide is a no-op read rather
// than a duplicate write. A failure partway leaves a partially-ingested item;
// re-running completes the remainder.
func (s *Store) AddSlide(slide SlideDescription) error {
	_, err := s.GetCreate("item", slide.ID, map[string]interface{}{
		"name":       slide.Name,
		"meta":       slide.Metadata,
		"image_meta": slide.ImageMetadata,
		"ann_meta":   slide.AnnotationsMetadata,
		"filepath":   slide.ImageFilepath,
		"user":       slide.UserID,
		"session":    slide.VisSessionID,
	})
	if err != nil {
		return err
	}

	for _, layer := range slide.ProcessedAnnotations {
		_, err := s.GetCreate("layer", layer.Properties.ID, map[string]interface{}{
			"name": layer.Properties.Name,
			"item": slide.ID,
		})
		if err != nil {
			return err
		}

		if layer.ImagePath != "" {
			_, err := s.GetCreate("image_overlay", layer.Properties.ID, map[string]interface{}{
				"bounds":     layer.ImageBounds,
				"properties": layer.ImageProperties,
				"image_src":  layer.ImagePath,
				"layer":      layer.Properties.ID,
			})
			if err != nil {
				return err
			}
			continue
		}

		for _, f := range layer.Features {
			structureID := f.id()
			if structureID == "" {
				// A generated id here would break idempotent re-ingestion
				log.Warnf("skipping feature without _id in layer %s", layer.Properties.ID)
				continue
			}
			_, err := s.GetCreate("structure", structureID, map[string]interface{}{
				"geom":       f.Geometry,
				"properties": f.Properties,
				"layer":      layer.Properties.ID,
				"item":       slide.ID,
			})
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// VisSessionState is the session snapshot handed over when a browser session
// is persisted: the active user, the session data blob and the currently
// loaded slides.
type VisSessionState struct {
	SessionID string                 `json:"session_id"`
	UserID    string                 `json:"user_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Current   []SlideDescription     `json:"current,omitempty"`
}

// AddVisSession persists a visualization session and get-creates its current
// items. Sessions without a user get a guest owner id.
func (s *Store) AddVisSession(state VisSessionState) error {
	userID := state.UserID
	if userID == "" {
		userID = GuestUserID()
	}

	sess, err := s.GetCreate("visSession", state.SessionID, map[string]interface{}{
		"user": userID,
		"data": state.Data,
	})
	if err != nil {
		return err
	}

	sessionID := state.SessionID
	if sessionID == "" && sess != nil {
		sessionID = sess.GetID()
	}

	for _, c := range state.Current {
		c.VisSessionID = sessionID
		if err := s.AddSlide(c); err != nil {
			return err
		}
	}
	return nil
}
