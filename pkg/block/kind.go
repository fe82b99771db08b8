// Package block defines the data model for block descriptors: the
// registry-side contract that the compiler consumes and never mutates.
package block

// Kind is a named type tag attached to selector endpoints. Two kinds are
// compatible iff they share a name or either one is the wildcard kind.
type Kind string

// Wildcard is the distinguished kind that matches any other kind in both
// directions. Treated as plain data, not as a supertype: compatibility is
// computed by explicit set intersection with this sentinel, never by
// inheritance.
const Wildcard Kind = "*"

// Concrete kinds in the fixed, closed catalog the compiler recognizes.
// Every AllowedReference a schema declares must name one of these (or
// Wildcard); schemaparse.Parse rejects anything else as a SchemaError
// rather than silently accepting a typo'd kind name.
const (
	KindImage        Kind = "image"
	KindInteger      Kind = "integer"
	KindFloat        Kind = "float"
	KindString       Kind = "string"
	KindBoolean      Kind = "boolean"
	KindListOfValues Kind = "list_of_values"

	KindBatchObjectDetectionPrediction      Kind = "batch_of_object_detection_prediction"
	KindBatchInstanceSegmentationPrediction Kind = "batch_of_instance_segmentation_prediction"
	KindBatchKeypointDetectionPrediction    Kind = "batch_of_keypoint_detection_prediction"
	KindBatchClassificationPrediction       Kind = "batch_of_classification_prediction"

	KindRoboflowModelID Kind = "roboflow_model_id"
)

// knownKinds backs IsKnownKind. Wildcard is valid everywhere a kind is
// named, so it is included alongside the concrete catalog.
var knownKinds = map[Kind]struct{}{
	Wildcard:                                {},
	KindImage:                               {},
	KindInteger:                             {},
	KindFloat:                               {},
	KindString:                              {},
	KindBoolean:                             {},
	KindListOfValues:                        {},
	KindBatchObjectDetectionPrediction:      {},
	KindBatchInstanceSegmentationPrediction: {},
	KindBatchKeypointDetectionPrediction:    {},
	KindBatchClassificationPrediction:       {},
	KindRoboflowModelID:                     {},
}

// IsKnownKind reports whether k is part of the closed kind catalog.
func IsKnownKind(k Kind) bool {
	_, ok := knownKinds[k]
	return ok
}

// Compatible reports whether kind a may flow into a slot declared as kind b,
// in either direction: wildcard absorbs anything, otherwise kinds must be
// named identically.
func Compatible(a, b Kind) bool {
	if a == Wildcard || b == Wildcard {
		return true
	}
	return a == b
}

// KindSet is an unordered collection of kinds with wildcard-aware
// intersection. A nil or empty KindSet intersects with nothing.
type KindSet []Kind

// Intersects reports whether any kind in s is Compatible with any kind in
// other. Wildcard in either set short-circuits to true provided the other
// set is non-empty.
func (s KindSet) Intersects(other KindSet) bool {
	if len(s) == 0 || len(other) == 0 {
		return false
	}
	for _, a := range s {
		for _, b := range other {
			if Compatible(a, b) {
				return true
			}
		}
	}
	return false
}

// Has reports whether s contains k exactly (no wildcard expansion); used
// when building indices keyed by concrete kind.
func (s KindSet) Has(k Kind) bool {
	for _, kind := range s {
		if kind == k {
			return true
		}
	}
	return false
}
