package seeder

import (
	"context"
	"fmt"
	"time"

	"govtjobs/internal/database"
)

type sampleJob struct {
	Title         string
	Department    string
	Location      string
	Qualification string
	Link          string
	Source        string
	Positions     int
	Salary        string
	AgeLimit      string
	Fee           string
	Description   string
	Selection     string
	PostedDaysAgo int
	OpenDays      int
}

var sampleJobs = []sampleJob{
	{
		Title:         "RRB NTPC Graduate Level",
		Department:    "Indian Railways",
		Location:      "All India",
		Qualification: "Graduate",
		Link:          "https://www.rrbcdg.gov.in/",
		Source:        "https://www.rrbcdg.gov.in/ntpc-graduate",
		Positions:     8113,
		Salary:        "₹29,200 - ₹35,400",
		AgeLimit:      "18-36 years",
		Fee:           "₹500 (₹250 for SC/ST)",
		Description:   "Non-technical popular categories: station master, goods train manager, clerks.",
		Selection:     "CBT 1, CBT 2, typing/aptitude test, document verification",
		PostedDaysAgo: 0,
		OpenDays:      30,
	},
	{
		Title:         "RBI Grade B Officer",
		Department:    "Reserve Bank of India",
		Location:      "Mumbai",
		Qualification: "Graduate",
		Link:          "https://opportunities.rbi.org.in/",
		Source:        "https://opportunities.rbi.org.in/grade-b",
		Positions:     94,
		Salary:        "₹55,200 basic",
		AgeLimit:      "21-30 years",
		Fee:           "₹850",
		Description:   "Officers in Grade B (DR) general, DEPR and DSIM streams.",
		Selection:     "Phase I, Phase II, interview",
		PostedDaysAgo: 3,
		OpenDays:      21,
	},
	{
		Title:         "SSC CGL Combined Graduate Level",
		Department:    "Staff Selection Commission",
		Location:      "All India",
		Qualification: "Graduate",
		Link:          "https://ssc.gov.in/",
		Source:        "https://ssc.gov.in/cgl",
		Positions:     17727,
		Salary:        "₹25,500 - ₹1,51,100",
		AgeLimit:      "18-32 years",
		Fee:           "₹100",
		Selection:     "Tier 1, Tier 2",
		PostedDaysAgo: 10,
		OpenDays:      25,
	},
	{
		Title:         "UPSC Civil Services Preliminary",
		Department:    "Union Public Service Commission",
		Location:      "All India",
		Qualification: "Graduate",
		Link:          "https://upsconline.nic.in/",
		Source:        "https://upsc.gov.in/cse-prelims",
		Positions:     1056,
		AgeLimit:      "21-32 years",
		Fee:           "₹100",
		Selection:     "Preliminary, mains, personality test",
		PostedDaysAgo: 20,
		OpenDays:      20,
	},
	{
		Title:         "Gramin Dak Sevak",
		Department:    "India Post",
		Location:      "Uttar Pradesh",
		Qualification: "10th Pass",
		Link:          "https://indiapostgdsonline.gov.in/",
		Source:        "https://indiapostgdsonline.gov.in/gds-up",
		Positions:     4588,
		Salary:        "₹10,000 - ₹12,000",
		AgeLimit:      "18-40 years",
		Fee:           "₹100",
		Selection:     "Merit list based on 10th marks",
		PostedDaysAgo: 1,
		OpenDays:      14,
	},
	{
		Title:         "Nursing Officer",
		Department:    "All India Institute of Medical Sciences",
		Location:      "New Delhi",
		Qualification: "B.Sc Nursing",
		Link:          "https://www.aiimsexams.ac.in/",
		Source:        "https://www.aiimsexams.ac.in/norcet",
		Positions:     3055,
		Salary:        "₹44,900 - ₹1,42,400",
		AgeLimit:      "18-30 years",
		Fee:           "₹3,000",
		PostedDaysAgo: 5,
		OpenDays:      18,
	},
	{
		Title:         "Constable (Executive)",
		Department:    "Delhi Police",
		Location:      "Delhi",
		Qualification: "12th Pass",
		Link:          "https://ssc.gov.in/",
		Source:        "https://delhipolice.gov.in/constable-executive",
		Positions:     7547,
		Salary:        "₹21,700 - ₹69,100",
		AgeLimit:      "18-25 years",
		Fee:           "₹100",
		Selection:     "CBT, PE&MT, medical",
		PostedDaysAgo: 40,
		OpenDays:      30,
	},
}

type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "jobs",
		"id",
		"title",
		"department",
		"location",
		"qualification",
		"deadline",
		"application_link",
		"posting_date",
		"source_url",
		"positions",
		"salary",
		"age_limit",
		"fee",
		"description",
		"selection_process",
		"is_active",
	); err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range sampleJobs {
			posted := today.AddDate(0, 0, -it.PostedDaysAgo)
			deadline := posted.AddDate(0, 0, it.OpenDays)
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO jobs (
					id, title, department, location, qualification, deadline, application_link,
					posting_date, source_url, positions, salary, age_limit, fee, description, selection_process
				) VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				ON CONFLICT (source_url) WHERE source_url IS NOT NULL DO NOTHING`,
				it.Title,
				it.Department,
				it.Location,
				it.Qualification,
				deadline,
				it.Link,
				posted,
				it.Source,
				it.Positions,
				nullIfEmpty(it.Salary),
				nullIfEmpty(it.AgeLimit),
				nullIfEmpty(it.Fee),
				nullIfEmpty(it.Description),
				nullIfEmpty(it.Selection),
			); err != nil {
				return fmt.Errorf("insert job %q: %w", it.Title, err)
			}
		}
		return nil
	})
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
