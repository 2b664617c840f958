package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/feral-file/habitat-tracker/internal/report"
	"github.com/feral-file/habitat-tracker/internal/units"
)

const amountFormat = "%.4f"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// relative renders t against now, e.g. "3 hours ago" or "2 days from now"
func relative(t, now time.Time) string {
	if t.IsZero() || t.Unix() == 0 {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printLandlordReport(w io.Writer, r *report.Report, now time.Time) error {
	fmt.Fprintf(w, "Landlord %s\n", r.Landlord)
	fmt.Fprintf(w, "Query %s generated %s\n\n", r.QueryID, relative(r.GeneratedAt, now))

	fmt.Fprintf(w, "Habitats (%d)\n", len(r.Habitats))
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tLEVEL\tELEMENT\tOCCUPIED\tHARVESTER\tROYALTY\tTOTAL KI\tEXPIRES")
	for _, h := range r.Habitats {
		harvester := "-"
		if h.Occupied {
			harvester = h.Harvester.Short()
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%.2f%%\t"+amountFormat+"\t%s\n",
			h.Name, h.Level, h.Element, yesNo(h.Occupied), harvester,
			units.Percent(h.HarvesterRoyaltyBips), h.TotalKiHarvested, relative(h.ExpiryTime, now))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTenants (%d)\n", len(r.Tenants))
	tw = newTable(w)
	fmt.Fprintln(tw, "PLAYER\tSTAKES\tPENDING\tLATEST STAKE\tACTIVE\tNEXT HARVEST")
	for _, t := range r.Tenants {
		active, next := "?", "?"
		if t.Profile != nil {
			active = yesNo(t.Profile.Active)
			next = relative(t.Profile.NextHarvestTime, now)
		}
		fmt.Fprintf(tw, "%s\t%d\t"+amountFormat+"\t%s\t%s\t%s\n",
			t.Player.Short(), t.Stakes, t.PendingTotal, relative(t.LatestStartTime, now), active, next)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nPending harvests (%d)\n", len(r.PendingHarvests))
	if err := printHarvests(w, r.PendingHarvests, now); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal landlord share: %s\n", r.TotalLandlordShareExact.String())
	if r.ClampedTimestamps > 0 {
		fmt.Fprintf(w, "Warning: %d timestamps were out of range and clamped\n", r.ClampedTimestamps)
	}
	return nil
}

func printHarvesterReport(w io.Writer, r *report.HarvesterReport, now time.Time) error {
	p := r.Player
	fmt.Fprintf(w, "Player %s\n", p.Player)
	fmt.Fprintf(w, "Query %s generated %s\n\n", r.QueryID, relative(r.GeneratedAt, now))

	tw := newTable(w)
	fmt.Fprintf(tw, "Active\t%s\n", yesNo(p.Active))
	fmt.Fprintf(tw, "Banned\t%s\n", yesNo(p.Banned))
	if p.ActiveHabitat.IsZero() {
		fmt.Fprintln(tw, "Active habitat\t-")
	} else {
		fmt.Fprintf(tw, "Active habitat\t%s\n", p.ActiveHabitat)
	}
	fmt.Fprintf(tw, "Locked stakes\t%d\n", p.CurrentLockedStakeIndex)
	fmt.Fprintf(tw, "Ki withdrawn\t"+amountFormat+"\n", p.TotalKiWithdrawn)
	fmt.Fprintf(tw, "Energy converted\t"+amountFormat+"\n", p.TotalEnergyConverted)
	fmt.Fprintf(tw, "Last harvest\t%s\n", relative(p.LastHarvestTime, now))
	fmt.Fprintf(tw, "Next harvest\t%s\n", relative(p.NextHarvestTime, now))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nHarvests (%d)\n", len(r.Harvests))
	if err := printHarvests(w, r.Harvests, now); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal "+amountFormat+" (landlords "+amountFormat+", tenant "+amountFormat+")\n",
		r.TotalAmount, r.TotalLandlordShare, r.TotalTenantShare)
	if r.ClampedTimestamps > 0 {
		fmt.Fprintf(w, "Warning: %d timestamps were out of range and clamped\n", r.ClampedTimestamps)
	}
	return nil
}

func printHarvests(w io.Writer, harvests []report.PendingHarvest, now time.Time) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tHABITAT\tPLAYER\tAMOUNT\tROYALTY\tLANDLORD\tTENANT\tUNLOCKS")
	for _, h := range harvests {
		royalty := fmt.Sprintf("%.2f%%", units.Percent(h.RoyaltyRateBips))
		if h.SelfHarvest {
			royalty = "self"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t"+amountFormat+"\t%s\t"+amountFormat+"\t"+amountFormat+"\t%s\n",
			h.Index, h.HabitatName, h.Player.Short(), h.Amount, royalty,
			h.LandlordShare, h.TenantShare, relative(h.EndTime, now))
	}
	return tw.Flush()
}
