package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrNoOrders = errors.New("order data contains no orders")

// LoadOrderRecords reads the JSON array of order records at filePath.
func LoadOrderRecords(filePath string) ([]OrderRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := DecodeOrderRecords(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return records, nil
}

func DecodeOrderRecords(r io.Reader) ([]OrderRecord, error) {
	var records []OrderRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode order data: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoOrders
	}
	for i, rec := range records {
		if rec.ID == "" {
			return nil, fmt.Errorf("order record %d: missing id", i)
		}
		if rec.FulfilTime < 0 {
			return nil, fmt.Errorf("order record %s: negative fulfilTime %g", rec.ID, rec.FulfilTime)
		}
	}
	return records, nil
}

// SaveOrderRecords writes records as an indented JSON array.
func SaveOrderRecords(filePath string, records []OrderRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write order data to %s: %w", filePath, err)
	}
	return nil
}
