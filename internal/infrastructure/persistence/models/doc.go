// Package models contains the GORM persistence models of the hotel tables read by
// the payment consolidation engine. The tables belong to the POS, reservations,
// purchasing, billing and petty-cash subsystems; this service only reads them.
//
// Models carry all GORM annotations. Each reader scans into a *Row type that adds
// the joined display columns and converts to the domain payload with ToDomain.
package models
