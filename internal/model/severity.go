package model

// Severity represents the privacy impact of a metadata finding.
type Severity int

const (
	// SeverityInfo indicates findings with no direct privacy impact,
	// such as image dimensions or colour profile.
	SeverityInfo Severity = iota

	// SeverityLow indicates details that only matter when combined with other data.
	// Examples: editing software, capture timestamps.
	SeverityLow

	// SeverityMedium indicates device details that can link photos to one owner.
	// Examples: camera make and model, host computer name.
	SeverityMedium

	// SeverityHigh indicates data that identifies a person or a device directly.
	// Examples: camera serial numbers, author and copyright names.
	SeverityHigh

	// SeverityCritical indicates data that reveals where the photo was taken.
	// Examples: GPS coordinates.
	SeverityCritical
)

// String returns a human-readable representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// FindingInfo contains the severity, impact and remediation of a finding type.
type FindingInfo struct {
	Severity       Severity
	Impact         string
	Recommendation string
}

// Finding types reported by the metadata inspector.
const (
	FindingGPSLocation  = "gps_location"
	FindingDeviceSerial = "device_serial"
	FindingAuthor       = "author"
	FindingDeviceModel  = "device_model"
	FindingHostComputer = "host_computer"
	FindingSoftware     = "software"
	FindingCaptureTime  = "capture_time"
	FindingImageComment = "image_comment"
)

// findingInfoMapping maps finding types to their metadata.
var findingInfoMapping = map[string]FindingInfo{
	FindingGPSLocation: {
		Severity:       SeverityCritical,
		Impact:         "GPS coordinates reveal where the photo was taken, often a home or workplace.",
		Recommendation: "Export a redacted copy or strip location data before sharing.",
	},
	FindingDeviceSerial: {
		Severity:       SeverityHigh,
		Impact:         "A serial number uniquely identifies the camera and links every photo it has taken.",
		Recommendation: "Remove maker notes and serial fields before publishing.",
	},
	FindingAuthor: {
		Severity:       SeverityHigh,
		Impact:         "Artist and copyright fields often contain a real name.",
		Recommendation: "Clear author fields or use a pseudonym in your camera settings.",
	},
	FindingDeviceModel: {
		Severity:       SeverityMedium,
		Impact:         "Camera make and model help correlate photos posted under different accounts.",
		Recommendation: "Strip device metadata when anonymity matters.",
	},
	FindingHostComputer: {
		Severity:       SeverityMedium,
		Impact:         "The host computer name may contain a user or machine name.",
		Recommendation: "Remove host computer metadata before sharing.",
	},
	FindingSoftware: {
		Severity:       SeverityLow,
		Impact:         "Software versions narrow down the device and its update history.",
		Recommendation: "Re-encode the image without software tags.",
	},
	FindingCaptureTime: {
		Severity:       SeverityLow,
		Impact:         "Timestamps reveal when the photo was taken and can confirm a routine.",
		Recommendation: "Remove date fields if the capture time is sensitive.",
	},
	FindingImageComment: {
		Severity:       SeverityLow,
		Impact:         "Free-text comments and descriptions may contain personal notes.",
		Recommendation: "Review and clear comment fields before sharing.",
	},
}

// GetSeverity returns the severity level for a finding type.
// Returns SeverityInfo if the finding type is not in the mapping.
func GetSeverity(findingType string) Severity {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info.Severity
	}
	return SeverityInfo
}

// GetFindingInfo returns the full finding information for a finding type.
// Returns a default FindingInfo with SeverityInfo if the type is not in the mapping.
func GetFindingInfo(findingType string) FindingInfo {
	if info, ok := findingInfoMapping[findingType]; ok {
		return info
	}
	return FindingInfo{
		Severity:       SeverityInfo,
		Impact:         "Unknown finding type. Review manually.",
		Recommendation: "Investigate the finding and assess risk.",
	}
}
