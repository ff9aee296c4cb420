package database

import (
	"context"
	"database/sql"
)

// schema holds the DDL for the reservation ledger plus the read-only
// catalog and customer tables.  The seat_claims unique key over
// (show_id, seat_label) is the storage-level backstop against two
// concurrent bookings claiming the same seat: claim rows exist only
// while their booking is not cancelled, so cancelling a booking frees
// its seats for rebooking.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS theatres (
		id              BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name            VARCHAR(128) NOT NULL,
		city            VARCHAR(64)  NOT NULL,
		manager_name    VARCHAR(128) NOT NULL DEFAULT '',
		manager_contact VARCHAR(32)  NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS screens (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		theatre_id BIGINT UNSIGNED NOT NULL,
		name       VARCHAR(64) NOT NULL,
		seat_rows  INT NOT NULL DEFAULT 0,
		seat_cols  INT NOT NULL DEFAULT 0,
		KEY ix_screens_theatre (theatre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id        BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name      VARCHAR(128) NOT NULL,
		genre     VARCHAR(64)  NOT NULL DEFAULT '',
		language  VARCHAR(32)  NOT NULL DEFAULT '',
		hours     VARCHAR(16)  NOT NULL DEFAULT '',
		image_url VARCHAR(512) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS shows (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(128) NOT NULL,
		start_time DATETIME NOT NULL,
		end_time   DATETIME NOT NULL,
		screen_id  BIGINT UNSIGNED NOT NULL,
		theatre_id BIGINT UNSIGNED NULL,
		movie_id   BIGINT UNSIGNED NULL,
		KEY ix_shows_movie (movie_id),
		KEY ix_shows_screen (screen_id)
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name          VARCHAR(128) NOT NULL,
		address       VARCHAR(256) NOT NULL DEFAULT '',
		mobile_number VARCHAR(32)  NOT NULL DEFAULT '',
		email         VARCHAR(128) NOT NULL,
		UNIQUE KEY uq_customers_email (email)
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_bookings (
		id                 BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		show_id            BIGINT UNSIGNED NOT NULL,
		booking_date       DATE NOT NULL,
		transaction_id     INT NOT NULL,
		payment_reference  VARCHAR(64) NULL,
		transaction_mode   VARCHAR(32) NOT NULL,
		transaction_status VARCHAR(16) NOT NULL,
		total_cost         DOUBLE NOT NULL,
		customer_id        BIGINT UNSIGNED NOT NULL,
		created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY ix_bookings_show (show_id),
		KEY ix_bookings_customer (customer_id),
		KEY ix_bookings_date (booking_date)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		booking_id  BIGINT UNSIGNED NOT NULL,
		no_of_seats INT NOT NULL,
		booking_ref INT NOT NULL,
		is_active   TINYINT(1) NOT NULL DEFAULT 1,
		UNIQUE KEY uq_tickets_booking (booking_id),
		CONSTRAINT fk_tickets_booking FOREIGN KEY (booking_id)
			REFERENCES ticket_bookings (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS ticket_seats (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		ticket_id  BIGINT UNSIGNED NOT NULL,
		seat_label VARCHAR(8) NOT NULL,
		position   INT NOT NULL DEFAULT 0,
		UNIQUE KEY uq_ticket_seats (ticket_id, seat_label),
		CONSTRAINT fk_ticket_seats_ticket FOREIGN KEY (ticket_id)
			REFERENCES tickets (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS seat_claims (
		id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		show_id    BIGINT UNSIGNED NOT NULL,
		seat_label VARCHAR(8) NOT NULL,
		booking_id BIGINT UNSIGNED NOT NULL,
		UNIQUE KEY uq_seat_claims (show_id, seat_label),
		KEY ix_seat_claims_booking (booking_id),
		CONSTRAINT fk_seat_claims_booking FOREIGN KEY (booking_id)
			REFERENCES ticket_bookings (id) ON DELETE CASCADE
	)`,
}

// Migrate applies the schema.  Statements are idempotent, so running
// it on every startup is safe.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
