package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/asset"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/classify"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/models"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/output"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/payroll"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/receipt"
	"github.com/ukaji3/ledgerconv-go/pkg/ledgerconv/wareki"
)

func newPayrollCmd(a *app) *cobra.Command {
	var (
		out       outputFlags
		formatted bool
		minRows   int
	)
	cmd := &cobra.Command{
		Use:   "payroll <payslips.xlsx|.xlsb>",
		Short: "Collect one payslip per sheet into the payroll CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("formatted") {
				a.cfg.Payroll.FormattedValues = formatted
			}
			if cmd.Flags().Changed("min-rows") {
				a.cfg.Payroll.MinRows = minRows
			}

			opts := ledgerconv.DefaultOptions()
			opts.RawValues = !a.cfg.Payroll.FormattedValues
			opts.OnSheetError = func(err *ledgerconv.ExtractionError) {
				a.log.Warn("skip unreadable sheet", "sheet", err.SheetName, "error", err.Err)
			}
			sheets, err := ledgerconv.LoadGrids(args[0], opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			rows, err := payroll.ParseSheets(sheets, a.cfg.Payroll.MinRows, a.log)
			if err != nil {
				return fmt.Errorf("%w: %w", ledgerconv.ErrNoData, err)
			}
			a.log.Info("converted payslips", "sheets", len(sheets), "rows", len(rows))

			return a.write(cmd, out, payroll.FileName(a.now()), func(w io.Writer) error {
				return payroll.WriteCSV(w, rows)
			})
		},
	}
	out.register(cmd.Flags())
	cmd.Flags().BoolVar(&formatted, "formatted", false, "Read cells as displayed instead of raw values")
	cmd.Flags().IntVar(&minRows, "min-rows", payroll.DefaultMinRows, "Skip sheets with fewer rows")
	return cmd
}

func newAssetCmd(a *app) *cobra.Command {
	var (
		out        outputFlags
		clientName string
		clientCode string
		noClassify bool
	)
	cmd := &cobra.Command{
		Use:   "asset <ledger.csv>",
		Short: "Convert a fixed asset ledger into the Shift_JIS asset import CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("no-classify") {
				a.cfg.Asset.SkipClassify = noClassify
			}
			if cmd.Flags().Changed("client-code") {
				a.cfg.Asset.ClientCode = clientCode
			}

			opts := ledgerconv.DefaultOptions()
			opts.Marker = asset.DetailMarker
			wb, err := ledgerconv.Open(args[0], opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			a.log.Debug("read ledger", "file", wb.BookName, "charset", wb.Charset)

			ledger, err := asset.ParseLedger(wb.Sheets[0].Grid)
			if err != nil {
				return fmt.Errorf("%w: %w", ledgerconv.ErrNoData, err)
			}

			var c classify.Classifier = classify.Nop{}
			if !a.cfg.Asset.SkipClassify {
				c = a.classifier(a.cfg)
			}
			rows, err := asset.Convert(cmd.Context(), ledger, c, a.log)
			if err != nil {
				return err
			}

			name := ledger.ClientName
			if name == "" {
				name = a.cfg.Asset.DefaultClientName
			}
			if clientName != "" {
				name = clientName
			}
			meta := asset.Meta{
				Version:    a.cfg.Asset.Version,
				ClientCode: a.cfg.Asset.ClientCode,
				ClientName: name,
				FiscalFrom: a.cfg.Asset.FiscalFrom,
				FiscalTo:   a.cfg.Asset.FiscalTo,
			}
			a.log.Info("converted asset ledger", "client", name, "rows", len(rows))

			return a.write(cmd, out, asset.FileName(a.now()), func(w io.Writer) error {
				return asset.WriteCSV(w, meta, rows)
			})
		},
	}
	out.register(cmd.Flags())
	cmd.Flags().StringVar(&clientName, "client-name", "", "Client name written to the header (default: from the ledger)")
	cmd.Flags().StringVar(&clientCode, "client-code", "", "Client code written to the header")
	cmd.Flags().BoolVar(&noClassify, "no-classify", false, "Leave asset type codes blank instead of asking the classifier")
	return cmd
}

func newReceiptCmd(a *app) *cobra.Command {
	var (
		out      outputFlags
		fromJSON string
		saveJSON string
		tsv      bool
		blank    int
	)
	cmd := &cobra.Command{
		Use:   "receipt [receipt images or PDFs...]",
		Short: "Read receipts into the expense import CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			var expenses []receipt.Expense
			if fromJSON != "" {
				loaded, err := receipt.LoadJSONFile(fromJSON)
				if err != nil {
					return fmt.Errorf("load expenses: %w", err)
				}
				expenses = loaded
			}

			if len(args) > 0 {
				images, err := receipt.LoadImages(args)
				if err != nil {
					return fmt.Errorf("load receipts: %w", err)
				}
				read, err := receipt.Extract(cmd.Context(), a.classifier(a.cfg), images)
				if err != nil {
					return err
				}
				a.log.Info("read receipts", "files", len(args), "expenses", len(read))
				expenses = append(expenses, read...)
			}

			for range blank {
				expenses = append(expenses, receipt.NewBlank(a.now()))
			}
			if len(expenses) == 0 {
				return errors.New("no receipts given: pass image files or --from-json")
			}
			a.log.Info("expense total", "count", len(expenses), "amount", receipt.Total(expenses).String())

			if saveJSON != "" {
				if err := saveExpenses(saveJSON, expenses); err != nil {
					return err
				}
			}

			if tsv {
				return a.write(cmd, out, strings.TrimSuffix(receipt.FileName(a.now()), ".csv")+".tsv", func(w io.Writer) error {
					return receipt.WriteTSV(w, expenses)
				})
			}
			return a.write(cmd, out, receipt.FileName(a.now()), func(w io.Writer) error {
				return receipt.WriteCSV(w, expenses, a.now())
			})
		},
	}
	out.register(cmd.Flags())
	cmd.Flags().StringVar(&fromJSON, "from-json", "", "Start from an expense list saved with --save-json")
	cmd.Flags().StringVar(&saveJSON, "save-json", "", "Save the expense list as editable JSON")
	cmd.Flags().BoolVar(&tsv, "tsv", false, "Write tab separated text for spreadsheet paste")
	cmd.Flags().IntVar(&blank, "add-blank", 0, "Append blank rows dated today")
	return cmd
}

func saveExpenses(path string, expenses []receipt.Expense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	if err := receipt.SaveJSON(f, expenses); err != nil {
		f.Close()
		return fmt.Errorf("save expenses: %w", err)
	}
	return f.Close()
}

func newGridCmd(a *app) *cobra.Command {
	var (
		outputPath    string
		pretty        bool
		raw           bool
		labels        bool
		marker        string
		sheetsDir     string
		printAreasDir string
	)
	cmd := &cobra.Command{
		Use:   "grid <input.xlsx|.xlsb|.csv>",
		Short: "Dump cells, labels, tables, and print areas as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := ledgerconv.DefaultOptions()
			opts.RawValues = raw
			opts.IncludeLabels = labels
			opts.Marker = marker
			opts.OnSheetError = func(err *ledgerconv.ExtractionError) {
				a.log.Warn("skip unreadable sheet", "sheet", err.SheetName, "error", err.Err)
			}

			wb, err := ledgerconv.Open(args[0], opts)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}
			data := wb.Data()

			jsonData, err := output.ToJSON(data, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if sheetsDir == "" && printAreasDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			}

			if sheetsDir != "" {
				if err := writeSheetFiles(data, sheetsDir, pretty); err != nil {
					return fmt.Errorf("failed to write sheet files: %w", err)
				}
			}
			if printAreasDir != "" {
				if err := writePrintAreaFiles(wb.PrintAreaViews(), printAreasDir, pretty); err != nil {
					return fmt.Errorf("failed to write print area files: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&raw, "raw", false, "Read numbers without their display format")
	cmd.Flags().BoolVar(&labels, "labels", false, "Include the normalized label index of each sheet")
	cmd.Flags().StringVar(&marker, "marker", "", "Text expected in a correctly decoded CSV (selects Shift_JIS)")
	cmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	cmd.Flags().StringVar(&printAreasDir, "print-areas-dir", "", "Directory for per-print-area output files")
	return cmd
}

func writeSheetFiles(wb *models.WorkbookData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, sheetName := range wb.SheetOrder {
		sheet := wb.Sheets[sheetName]
		jsonData, err := output.SheetToJSON(&sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheetName+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func writePrintAreaFiles(views []models.PrintAreaView, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	seen := make(map[string]int)
	for _, view := range views {
		seen[view.SheetName]++
		jsonData, err := output.PrintAreaViewToJSON(&view, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, fmt.Sprintf("%s_area%d.json", view.SheetName, seen[view.SheetName]))
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func newWarekiCmd(a *app) *cobra.Command {
	var (
		format string
		iso    bool
	)
	cmd := &cobra.Command{
		Use:   "wareki [date text...]",
		Short: "Convert Reiwa era dates (令和6年4月1日) to Gregorian dates",
		Long: `Converts each argument, or each line of stdin when no argument is given.
Text that is not an era date is printed unchanged.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := wareki.ParseFormat(format)
			if err != nil {
				return err
			}
			if iso {
				f = wareki.FormatISO
			}

			w := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, arg := range args {
					fmt.Fprintln(w, wareki.Convert(arg, f))
				}
				return nil
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				fmt.Fprintln(w, wareki.Convert(sc.Text(), f))
			}
			return sc.Err()
		},
	}
	cmd.Flags().StringVar(&format, "format", "compact", "Output format: compact (YYYYMMDD) or iso (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&iso, "iso", false, "Shorthand for --format iso")
	return cmd
}
