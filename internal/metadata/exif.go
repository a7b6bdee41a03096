package metadata

import (
	"context"
	"errors"
	"fmt"
	"os"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/imgshield/internal/model"
)

// DefaultMaxImageSize limits the file size read for inspection.
const DefaultMaxImageSize = 64 * 1024 * 1024

// Inspector extracts privacy findings from EXIF metadata.
//
// It checks for:
//   - GPS coordinates (location disclosure)
//   - Camera make/model/serial (device identification)
//   - Software and host computer (editing tools, machine names)
//   - Timestamps (routine inference)
//   - Author, owner and copyright (identity disclosure)
//   - Free-text comments
type Inspector struct {
	maxImageSize int64
}

// NewInspector creates an Inspector.
func NewInspector() *Inspector {
	return &Inspector{maxImageSize: DefaultMaxImageSize}
}

// InspectFile reads the file at path and inspects its metadata.
func (i *Inspector) InspectFile(ctx context.Context, path string) ([]model.Finding, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.Size() > i.maxImageSize {
		return nil, fmt.Errorf("image too large for inspection: %d bytes", info.Size())
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return i.Inspect(ctx, data)
}

// Inspect returns the findings in the EXIF block of an encoded image.
// Images without EXIF data have no findings.
func (i *Inspector) Inspect(ctx context.Context, data []byte) ([]model.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rawExif, err := exif.SearchAndExtractExif(data)
	if errors.Is(err, exif.ErrNoExif) {
		return []model.Finding{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to locate EXIF data: %w", err)
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EXIF data: %w", err)
	}

	tags := make([]Tag, 0, len(entries))
	for _, entry := range entries {
		tags = append(tags, Tag{IfdPath: entry.IfdPath, Name: entry.TagName, Value: entry.Formatted})
	}
	return Classify(tags), nil
}

// Tag is one decoded EXIF entry.
type Tag struct {
	IfdPath string
	Name    string
	Value   string
}

// Classify turns EXIF tags into findings, in tag order. Tags without privacy
// impact and tags with empty values are skipped.
func Classify(tags []Tag) []model.Finding {
	findings := make([]model.Finding, 0)

	for _, tag := range tags {
		if tag.Value == "" {
			continue
		}
		value := tag.Name + ": " + tag.Value
		location := tag.Name
		if tag.IfdPath != "" {
			location = tag.IfdPath + "/" + tag.Name
		}

		switch tag.Name {
		case "GPSLatitude", "GPSLongitude", "GPSLatitudeRef", "GPSLongitudeRef", "GPSAltitude":
			findings = append(findings, model.NewFinding(model.FindingGPSLocation,
				"GPS Coordinates in Image EXIF",
				"The image contains GPS coordinates in its EXIF metadata. This reveals the location where the image was taken.",
				value, location))

		case "Make", "Model", "LensModel":
			findings = append(findings, model.NewFinding(model.FindingDeviceModel,
				"Camera Information in Image EXIF",
				"The image contains camera make/model information. This can help identify the device used.",
				value, location))

		case "SerialNumber", "CameraSerialNumber", "BodySerialNumber", "LensSerialNumber":
			findings = append(findings, model.NewFinding(model.FindingDeviceSerial,
				"Device Serial Number in Image EXIF",
				"The image contains a device serial number. This is a unique identifier that can track the device across photos.",
				value, location))

		case "Software", "ProcessingSoftware":
			findings = append(findings, model.NewFinding(model.FindingSoftware,
				"Software Information in Image EXIF",
				"The image contains software information that reveals editing tools or operating system used.",
				value, location))

		case "Artist", "Author", "Copyright", "XPAuthor", "CameraOwnerName", "OwnerName":
			findings = append(findings, model.NewFinding(model.FindingAuthor,
				"Author/Copyright Information in Image EXIF",
				"The image contains author, owner or copyright information that could identify the creator.",
				value, location))

		case "DateTimeOriginal", "DateTimeDigitized", "DateTime", "GPSDateStamp":
			findings = append(findings, model.NewFinding(model.FindingCaptureTime,
				"Timestamp in Image EXIF",
				"The image contains timestamp information. Combined with other data, this can help determine timezone and activity patterns.",
				value, location))

		case "HostComputer":
			findings = append(findings, model.NewFinding(model.FindingHostComputer,
				"Host Computer in Image EXIF",
				"The image contains the name of the computer used to process it.",
				value, location))

		case "ImageDescription", "UserComment", "XPComment", "XPSubject":
			findings = append(findings, model.NewFinding(model.FindingImageComment,
				"Comment in Image EXIF",
				"The image contains a free-text description or comment.",
				value, location))
		}
	}

	return findings
}
