package model

import "time"

// Show represents a scheduled screening of a movie on a particular
// screen.  Shows are owned by the catalog store and are read-only
// from the booking engine's perspective.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the screening.
//  StartTime – when the screening begins (UTC).
//  EndTime   – when the screening ends (UTC).
//  ScreenID  – screen on which the show runs.
//  TheatreID – theatre hosting the show (0 when the row predates the
//              column; resolve through the screen instead).
//  MovieID   – movie being screened (nil for events without a movie).
type Show struct {
	ID        uint64    `json:"show_id"`
	Name      string    `json:"show_name"`
	StartTime time.Time `json:"show_start_time"`
	EndTime   time.Time `json:"show_end_time"`
	ScreenID  uint64    `json:"screen_id"`
	TheatreID uint64    `json:"theatre_id"`
	MovieID   *uint64   `json:"movie_id,omitempty"`
}

// Movie describes a film in the catalog.
type Movie struct {
	ID       uint64 `json:"movie_id"`
	Name     string `json:"movie_name"`
	Genre    string `json:"movie_genre"`
	Language string `json:"language"`
	Hours    string `json:"movie_hours"`
	ImageURL string `json:"image_url"`
}

// Screen describes an auditorium inside a theatre, including its
// seating grid dimensions.
type Screen struct {
	ID        uint64 `json:"screen_id"`
	TheatreID uint64 `json:"theatre_id"`
	Name      string `json:"screen_name"`
	Rows      int    `json:"rows"`
	Columns   int    `json:"columns"`
}

// Theatre describes a venue holding one or more screens.
type Theatre struct {
	ID             uint64 `json:"theatre_id"`
	Name           string `json:"theatre_name"`
	City           string `json:"theatre_city"`
	ManagerName    string `json:"manager_name"`
	ManagerContact string `json:"manager_contact"`
}
