package sqlite

// Scanner is satisfied by both *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...interface{}) error
}

// ScanItem scans a key, value and updated_at column triple.
func ScanItem(scanner Scanner) (*Item, error) {
	item := &Item{}
	var updatedAt string

	if err := scanner.Scan(&item.Key, &item.Value, &updatedAt); err != nil {
		return nil, err
	}

	if t, err := ParseTimeFromDB(updatedAt); err == nil {
		item.UpdatedAt = t
	}
	return item, nil
}
