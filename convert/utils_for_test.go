package convert

import (
	"github.com/quadrantdb/quadrant/common"
	"github.com/quadrantdb/quadrant/cube"
	"github.com/quadrantdb/quadrant/dict"
)

// Test fixtures for this package: a small sales cube with a country dimension
// table deriving name and region from the country code.

var (
	colCountryCode = common.ColRef{TableName: "SALES", ColName: "country_code", ColIndex: 0}
	colDay         = common.ColRef{TableName: "SALES", ColName: "day", ColIndex: 1}
	colPrice       = common.ColRef{TableName: "SALES", ColName: "price", ColIndex: 2}
	colSeller      = common.ColRef{TableName: "SALES", ColName: "seller", ColIndex: 3}

	colCountryPK     = common.ColRef{TableName: "COUNTRY", ColName: "code", ColIndex: 0}
	colCountryName   = common.ColRef{TableName: "COUNTRY", ColName: "name", ColIndex: 1}
	colCountryRegion = common.ColRef{TableName: "COUNTRY", ColName: "region", ColIndex: 2}
)

func sumPriceMeasure() *common.MeasureDesc {
	return &common.MeasureDesc{
		AggFunc:          "sum",
		Cols:             []common.ColRef{colPrice},
		NeedsRewrite:     true,
		RewriteFieldName: "SUM_PRICE",
	}
}

func topNPriceMeasure() *common.MeasureDesc {
	return &common.MeasureDesc{
		AggFunc:          "topn",
		Cols:             []common.ColRef{colPrice, colSeller},
		NeedsRewrite:     true,
		RewriteFieldName: "TOPN_PRICE",
	}
}

func salesCuboid(measures ...*common.MeasureDesc) *cube.Cuboid {
	measureTypes := make([]common.ColumnType, len(measures))
	for i, m := range measures {
		if m.AggFunc == "topn" {
			measureTypes[i] = common.VarBinaryColumnType
		} else {
			measureTypes[i] = common.DoubleColumnType
		}
	}
	return cube.NewCuboid(
		[]common.ColRef{colCountryCode, colDay},
		[]common.ColumnType{common.VarcharColumnType, common.BigIntColumnType},
		measures,
		measureTypes,
	)
}

func countryLookupTable() *dict.LookupTable {
	lt := dict.NewLookupTable()
	lt.AddRow([]string{"US"}, []string{"US", "United States", "NA"})
	lt.AddRow([]string{"GB"}, []string{"GB", "United Kingdom", "EU"})
	return lt
}

func lookupDeriveInfo() *cube.DeriveInfo {
	return &cube.DeriveInfo{
		Kind:        cube.DeriveKindLookup,
		HostCols:    []common.ColRef{colCountryCode},
		DerivedCols: []common.ColRef{colCountryName, colCountryRegion},
		LookupTable: "COUNTRY",
	}
}

func salesSegment(deriveInfos ...*cube.DeriveInfo) *cube.Segment {
	segment := cube.NewSegment(&cube.CubeDesc{DeriveInfos: deriveInfos})
	segment.SetLookupTable("COUNTRY", countryLookupTable())
	segment.SetDictionary(colSeller, dict.NewDictionary([]string{"alice", "bob", "carol"}))
	return segment
}

// salesTupleInfo maps country_code, day, country_name, country_region, then
// the given fields, to consecutive slots. Pass extraSlots > 0 to leave
// trailing slots unmapped.
func salesTupleInfo(fields []string, extraSlots int) *common.TupleInfo {
	cols := []common.ColRef{colCountryCode, colDay, colCountryName, colCountryRegion}
	ti := common.NewTupleInfo(len(cols) + len(fields) + extraSlots)
	for i, col := range cols {
		ti.SetColumnIndex(col, i)
	}
	for i, field := range fields {
		ti.SetFieldIndex(field, len(cols)+i)
	}
	return ti
}
