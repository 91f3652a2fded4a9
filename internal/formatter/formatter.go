// package formatter exports favorite songs to various formats (CSV, Markdown, plain text, JSON) and reads them back from CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

var csvHeaders = []string{"ID", "Title", "Artist", "Album", "Year"}

// ParseFormat accepts the canonical names plus a few common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, md, txt or json)", shared.ErrInvalidArgument, s)
	}
}

// Collection is one user's favorite songs prepared for export.
type Collection struct {
	UserID       int64         `json:"userId"`
	Owner        string        `json:"owner,omitempty"`
	ProfileImage string        `json:"profileImage,omitempty"`
	Songs        []models.Song `json:"favoriteSongs"`
}

// FromProfile builds a [Collection] from a user profile.
func FromProfile(p models.Profile) Collection {
	return Collection{UserID: p.ID, Owner: p.Name, ProfileImage: p.ProfileImage, Songs: p.FavoriteSongs}
}

func (c Collection) heading() string {
	if c.Owner != "" {
		return fmt.Sprintf("Favorite songs of %s", c.Owner)
	}
	return fmt.Sprintf("Favorite songs of user %d", c.UserID)
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// ExportToCSV converts a collection to CSV format with columns: ID, Title, Artist, Album, Year
func ExportToCSV(c Collection) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range c.Songs {
		record := []string{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Artist,
			song.Album,
			yearString(song.Year),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a collection to Markdown format with an optional profile image
func ExportToMarkdown(c Collection, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", c.heading()))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Profile](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(c.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range c.Songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		yearPart := ""
		if song.Year != 0 {
			yearPart = fmt.Sprintf(" [%d]", song.Year)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, song.Artist, song.Title, albumPart, yearPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a collection to plain text format
func ExportToText(c Collection) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(c.heading() + "\n")
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(c.Songs)))

	for i, song := range c.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist, song.Title))
	}

	return buf.Bytes(), nil
}

// ExportToJSON writes the collection as pretty-printed JSON, songs never null
func ExportToJSON(c Collection) ([]byte, error) {
	if c.Songs == nil {
		c.Songs = []models.Song{}
	}
	return shared.MarshalJSON(c, true)
}

// Export renders c in the given format.
func Export(c Collection, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(c)
	case FormatMarkdown:
		return ExportToMarkdown(c, "")
	case FormatText:
		return ExportToText(c)
	case FormatJSON:
		return ExportToJSON(c)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders c in the given format to w.
func WriteExport(w io.Writer, c Collection, format Format) error {
	data, err := Export(c, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExportFile writes c to path, defaulting to songs_{userID}.{format} in the working directory.
func WriteExportFile(c Collection, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("songs_%d.%s", c.UserID, format)
	}

	data, err := Export(c, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory    string
	Files        []string
	ProfileImage string
}

// WriteMarkdownExport exports a collection to Markdown format in a dedicated directory.
//
// Creates {dir}/README.md and, when the collection has an http(s) profile image, {dir}/profile.jpg.
// A failed image download only produces a warning.
func WriteMarkdownExport(c Collection, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = fmt.Sprintf("songs_%d", c.UserID)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var imageFilename string
	if strings.HasPrefix(c.ProfileImage, "http://") || strings.HasPrefix(c.ProfileImage, "https://") {
		imageData, err := DownloadImage(c.ProfileImage)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download profile image: %v\n", err)
		} else {
			imageFilename = "profile.jpg"
			imagePath := filepath.Join(outputDir, imageFilename)
			if err := os.WriteFile(imagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save profile image: %v\n", err)
				imageFilename = ""
			} else {
				result.ProfileImage = imagePath
				result.Files = append(result.Files, imagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(c, imageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// ParseCSV reads songs from CSV with a header row. Columns are matched by name, case-insensitively;
// only Title, Artist, Album, Year and ID are recognized and at least one of them must be present.
// Blank rows are skipped. Empty ID or Year cells are left zero.
func ParseCSV(r io.Reader) ([]models.SongInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []models.SongInput{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %w", shared.ErrInvalidArgument, err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	known := 0
	for _, name := range []string{"id", "title", "artist", "album", "year"} {
		if _, ok := columns[name]; ok {
			known++
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("%w: CSV header has no song columns", shared.ErrInvalidArgument)
	}

	cell := func(record []string, name string) string {
		if i, ok := columns[name]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	songs := []models.SongInput{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrInvalidArgument, err)
		}

		line, _ := reader.FieldPos(0)
		in := models.SongInput{
			Title:  cell(record, "title"),
			Artist: cell(record, "artist"),
			Album:  cell(record, "album"),
		}

		if raw := cell(record, "id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id < 0 {
				return nil, fmt.Errorf("%w: line %d: invalid id %q", shared.ErrInvalidArgument, line, raw)
			}
			in.ID = id
		}
		if raw := cell(record, "year"); raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid year %q", shared.ErrInvalidArgument, line, raw)
			}
			in.Year = year
		}

		if in.Empty() {
			continue
		}
		songs = append(songs, in)
	}

	return songs, nil
}
