package excel

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"sheetlens/domain/core"
	"sheetlens/domain/table"
	"sheetlens/domain/workbook"

	"github.com/xuri/excelize/v2"
)

// Parser reads spreadsheet containers held in memory.
type Parser struct{}

// NewParser creates a workbook parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse opens the workbook, normalizes every sheet in native order and
// aggregates workbook metadata. Failures never escape as errors or panics;
// they come back as a tagged result wrapping core.ErrUnreadableFile.
func (p *Parser) Parse(data []byte) (result workbook.Result) {
	startTime := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WorkbookParser] recovered from panic: %v", r)
			result = workbook.Failed(core.NewUnreadableFileError(fmt.Errorf("panic while parsing: %v", r)))
		}
	}()

	f, err := open(data)
	if err != nil {
		return workbook.Failed(err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make(map[string]*table.SheetTable, len(names))
	reader := newSheetReader(f)
	for _, name := range names {
		raw, err := reader.read(name)
		if err != nil {
			return workbook.Failed(core.NewUnreadableFileError(fmt.Errorf("sheet %q: %w", name, err)))
		}
		normalized := table.Normalize(raw)
		sheets[name] = &normalized
	}

	meta := workbook.Aggregate(names, sheets)
	log.Printf("[WorkbookParser] parsed %d sheet(s), %d rows in %.2fms",
		meta.SheetCount, meta.TotalRows, float64(time.Since(startTime).Nanoseconds())/1e6)

	return workbook.Result{
		Success:  true,
		Workbook: meta,
		Sheets:   sheets,
	}
}

// Info reports workbook metadata and per-sheet dimensions without building
// row objects.
func (p *Parser) Info(data []byte) (*workbook.Info, error) {
	f, err := open(data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	names := f.GetSheetList()
	info := &workbook.Info{Sheets: make([]workbook.SheetInfo, 0, len(names))}
	dims := make(map[string]*table.SheetTable, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, core.NewUnreadableFileError(fmt.Errorf("sheet %q: %w", name, err))
		}
		si := workbook.SheetInfo{Name: name}
		if len(rows) > 0 {
			si.RowCount = len(rows) - 1
			si.ColumnCount = len(rows[0])
		}
		info.Sheets = append(info.Sheets, si)
		dims[name] = &table.SheetTable{RowCount: si.RowCount, ColumnCount: si.ColumnCount}
	}
	info.Metadata = workbook.Aggregate(names, dims)
	return info, nil
}

// ExtractSheet normalizes a single named sheet.
func (p *Parser) ExtractSheet(data []byte, name string) (*table.SheetTable, error) {
	f, err := open(data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrSheetNotFound, name)
	}

	raw, err := newSheetReader(f).read(name)
	if err != nil {
		return nil, core.NewUnreadableFileError(fmt.Errorf("sheet %q: %w", name, err))
	}
	normalized := table.Normalize(raw)
	return &normalized, nil
}

func open(data []byte) (*excelize.File, error) {
	if len(data) == 0 {
		return nil, core.NewUnreadableFileError(fmt.Errorf("file is empty"))
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		log.Printf("[WorkbookParser] failed to open workbook: %v", err)
		return nil, core.NewUnreadableFileError(err)
	}
	return f, nil
}
