package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HerbHall/rigplanner/internal/compare"
	"github.com/HerbHall/rigplanner/internal/services"
	"github.com/HerbHall/rigplanner/internal/store"
	"github.com/HerbHall/rigplanner/pkg/models"
)

var (
	flagPartsType    string
	flagPartsSearch  string
	flagPartsInStock bool
	flagPartsMax     float64
	flagPartsSort    string
	flagPartsDesc    bool
	flagPartsLimit   int
	flagPartsOffset  int
)

var partsCmd = &cobra.Command{
	Use:   "parts",
	Short: "List the components stored in the database",
	RunE:  runParts,
}

func init() {
	partsCmd.Flags().StringVarP(&flagPartsType, "type", "t", "", "Slot kind to list")
	partsCmd.Flags().StringVarP(&flagPartsSearch, "search", "s", "", "Substring of the part name")
	partsCmd.Flags().BoolVar(&flagPartsInStock, "in-stock", false, "Only parts in stock")
	partsCmd.Flags().Float64Var(&flagPartsMax, "max-price", 0, "Price ceiling, 0 for none")
	partsCmd.Flags().StringVar(&flagPartsSort, "sort", "", "Sort by name, price or stock (default catalog order)")
	partsCmd.Flags().BoolVar(&flagPartsDesc, "desc", false, "Sort descending")
	partsCmd.Flags().IntVar(&flagPartsLimit, "limit", 50, "Maximum rows")
	partsCmd.Flags().IntVar(&flagPartsOffset, "offset", 0, "Rows to skip")
	rootCmd.AddCommand(partsCmd)
}

func runParts(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	filter := services.ComponentFilter{
		Search:   flagPartsSearch,
		MaxPrice: flagPartsMax,
		InStock:  flagPartsInStock,
	}
	if flagPartsType != "" {
		kind, err := models.ParseSlotKind(flagPartsType)
		if err != nil {
			return err
		}
		filter.Type = kind
	}
	opts := services.ListOptions{
		Limit:  flagPartsLimit,
		Offset: flagPartsOffset,
		SortBy: flagPartsSort,
	}
	if flagPartsDesc {
		opts.SortOrder = "desc"
	}

	db, err := store.New(settings.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := services.NewSQLiteComponentRepository(cmd.Context(), db)
	if err != nil {
		return err
	}
	res, err := repo.List(cmd.Context(), filter, opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tNAME\tPRICE\tSTOCK")
	for _, c := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			c.ID, c.Type, c.Name, compare.FormatPrice(settings.Compare.Currency, c.Price), c.StockCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d part(s)\n", len(res.Items), res.Total)
	return nil
}
