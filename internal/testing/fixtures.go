package testing

import (
	"os"
	"path/filepath"
	"testing"
)

// SalesCSV is a clean sales export: three 3 bed / 2 bath homes of 1500 sqft
// in 53202 with an average price of 203,333.33. A subject matching them
// keeps two comparables after the cheapest sale is trimmed as an outlier.
const SalesCSV = `address,zipcode,price,sqft,beds,baths
100 N Water St,53202,195000,1500,3,2
200 E Ogden Ave,53202,205000,1500,3,2
300 W Wells St,53202,210000,1500,3,2
`

// RawSalesCSV is an uncleaned municipal export: currency-formatted prices,
// split bath counts, a zero price, a missing size and mixed date formats.
// Two of its five rows survive cleaning.
const RawSalesCSV = `Address,ZipCode,Sale_price,FinishedSqft,Bdrms,Fbath,Hbath,Year_Built,Lotsize,Sale_date
"100 N Water St",53202,"$215,000",1450,3,1,1,1925,4800,2023-05-14
200 E Ogden Ave,53202,0,1200,2,1,0,1950,3600,2023-06-01
300 W Wells St,53203,180000,,2,1,0,1948,3000,2023-07-11
400 S 1st St,53204,240000,1600,4,2,0,,5000,not a date
500 N Jackson St,53202,199500,1380,3,2,0,2001,,06/30/2023
`

// WriteSalesCSV writes content to a sales.csv in a temporary directory and
// returns its path
func WriteSalesCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write sales fixture: %v", err)
	}
	return path
}
