// Reelmap - Movie Recommendation Engine
// Copyright 2026 Reelmap Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelmap/reelmap

package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/reelmap/reelmap/internal/models"
)

// titleYearPattern extracts the release year from MovieLens titles, which
// carry it as a trailing parenthesized suffix: "Heat (1995)".
var titleYearPattern = regexp.MustCompile(`^(.*\S)\s+\((\d{4})\)\s*$`)

// parseMovieTitle splits a raw catalog title into title and year.
// Titles without a year suffix are returned unchanged with year 0.
func parseMovieTitle(raw string) (title string, year int) {
	m := titleYearPattern.FindStringSubmatch(raw)
	if m == nil {
		return strings.TrimSpace(raw), 0
	}
	year, _ = strconv.Atoi(m[2])
	return m[1], year
}

// readMovies parses a movies.csv file (movieId,title,genres) into the
// catalog. Genres are pipe-delimited in storage.
func readMovies(r io.Reader) ([]models.Movie, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read movies header: %w", err)
	}
	if len(header) < 3 || !strings.EqualFold(header[0], "movieId") {
		return nil, fmt.Errorf("unexpected movies header: %v", header)
	}

	var movies []models.Movie
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read movies line %d: %w", line, err)
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid movie id %q on line %d: %w", record[0], line, err)
		}

		title, year := parseMovieTitle(record[1])
		movies = append(movies, models.Movie{
			ID:     id,
			Title:  title,
			Year:   year,
			Genres: strings.Split(record[2], "|"),
		})
	}

	return movies, nil
}

// readRatings parses a ratings.csv file (userId,movieId,rating,timestamp).
func readRatings(r io.Reader) ([]models.Rating, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings header: %w", err)
	}
	if len(header) < 4 || !strings.EqualFold(header[0], "userId") {
		return nil, fmt.Errorf("unexpected ratings header: %v", header)
	}

	var ratings []models.Rating
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ratings line %d: %w", line, err)
		}

		userID, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q on line %d: %w", record[0], line, err)
		}
		movieID, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid movie id %q on line %d: %w", record[1], line, err)
		}
		value, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rating %q on line %d: %w", record[2], line, err)
		}
		ts, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp %q on line %d: %w", record[3], line, err)
		}

		ratings = append(ratings, models.Rating{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    value,
			Timestamp: ts,
		})
	}

	return ratings, nil
}

// writeRatings writes the full ratings table in the same CSV layout it is
// read from. Rating values keep their shortest decimal representation.
func writeRatings(w io.Writer, ratings []models.Rating) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"userId", "movieId", "rating", "timestamp"}); err != nil {
		return fmt.Errorf("failed to write ratings header: %w", err)
	}

	for i := range ratings {
		r := &ratings[i]
		record := []string{
			strconv.Itoa(r.UserID),
			strconv.Itoa(r.MovieID),
			strconv.FormatFloat(r.Rating, 'f', -1, 64),
			strconv.FormatInt(r.Timestamp, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write rating row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// openAndRead opens path and parses it with the given reader function.
func openAndRead[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return read(f)
}
