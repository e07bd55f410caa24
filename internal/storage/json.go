package storage

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"gridcalc/internal/grid"
)

// document is the on-disk JSON layout:
//
//	{"rows": 10, "columns": 10, "cells": {"0,1": {"value": 3, "formula": "=A1+2"}}}
type document struct {
	Rows    int                `json:"rows"`
	Columns int                `json:"columns"`
	Cells   map[string]cellDoc `json:"cells"`
}

type cellDoc struct {
	Value   any     `json:"value"`
	Formula *string `json:"formula"`
}

func SaveJSON(g *grid.Grid, filename string) error {
	data, err := marshalDocument(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}

func LoadJSON(filename string) (*grid.Grid, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return unmarshalDocument(data)
}

func marshalDocument(g *grid.Grid) ([]byte, error) {
	doc := document{
		Rows:    g.Rows,
		Columns: g.Columns,
		Cells:   make(map[string]cellDoc, g.Len()),
	}
	for _, at := range g.Coords() {
		c := g.Cell(at.Row, at.Col)
		var cd cellDoc
		switch c.Value.Kind {
		case grid.KindNumber:
			cd.Value = c.Value.Number
		case grid.KindText:
			cd.Value = c.Value.Text
		case grid.KindError:
			cd.Value = grid.ErrorMarker
		}
		if c.HasFormula() {
			formula := c.Formula
			cd.Formula = &formula
		}
		doc.Cells[cellKey(at)] = cd
	}
	data, err := sonic.ConfigStd.MarshalIndent(&doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("error encoding JSON: %w", err)
	}
	return data, nil
}

func unmarshalDocument(data []byte) (*grid.Grid, error) {
	var doc document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error decoding JSON: %w", err)
	}
	g := grid.New(doc.Rows, doc.Columns)
	for key, cd := range doc.Cells {
		at, err := parseCellKey(key)
		if err != nil {
			return nil, err
		}
		var c grid.Cell
		if cd.Formula != nil {
			c.Formula = *cd.Formula
		}
		switch v := cd.Value.(type) {
		case nil:
		case float64:
			c.Value = grid.Number(v)
		case string:
			if v == grid.ErrorMarker && c.HasFormula() {
				c.Value = grid.ErrorValue()
			} else {
				c.Value = grid.Text(v)
			}
		default:
			return nil, fmt.Errorf("error decoding JSON: cell %q: unsupported value %v", key, v)
		}
		g.Set(at.Row, at.Col, c)
		g.Grow(at.Row, at.Col)
	}
	return g, nil
}

func cellKey(at grid.Coord) string {
	return strconv.Itoa(at.Row) + "," + strconv.Itoa(at.Col)
}

func parseCellKey(key string) (grid.Coord, error) {
	rs, cs, ok := strings.Cut(key, ",")
	if ok {
		r, rerr := strconv.Atoi(strings.TrimSpace(rs))
		c, cerr := strconv.Atoi(strings.TrimSpace(cs))
		if rerr == nil && cerr == nil && r >= 0 && c >= 0 {
			return grid.Coord{Row: r, Col: c}, nil
		}
	}
	return grid.Coord{}, fmt.Errorf("error decoding JSON: bad cell key %q", key)
}
