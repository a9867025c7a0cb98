package dialect

import "github.com/leapstack-labs/snipsql/pkg/core"

// ANSI is the default dialect: double-quoted identifiers, no backticks.
var ANSI = NewDialect("ansi").
	Aliases("standard", "sql").
	Build()

var builtins = []*Dialect{
	ANSI,
	NewDialect("duckdb").
		Identifiers(`"`, `"`, `""`, core.NormCaseInsensitive).
		DefaultSchema("main").
		Build(),
	NewDialect("postgres").
		Aliases("postgresql", "pg").
		DefaultSchema("public").
		PlaceholderStyle(core.PlaceholderDollar).
		Build(),
	NewDialect("sqlite").
		Identifiers(`"`, `"`, `""`, core.NormCaseInsensitive).
		DefaultSchema("main").
		Build(),
	NewDialect("snowflake").
		Identifiers(`"`, `"`, `""`, core.NormUppercase).
		DefaultSchema("PUBLIC").
		Build(),
	NewDialect("mysql").
		Identifiers("`", "`", "``", core.NormCaseSensitive).
		Build(),
	NewDialect("mariadb").
		Identifiers("`", "`", "``", core.NormCaseSensitive).
		Build(),
	NewDialect("bigquery").
		Identifiers("`", "`", "\\`", core.NormCaseInsensitive).
		Build(),
	NewDialect("databricks").
		Identifiers("`", "`", "``", core.NormCaseInsensitive).
		DefaultSchema("default").
		Build(),
	NewDialect("spark").
		Aliases("sparksql").
		Identifiers("`", "`", "``", core.NormCaseInsensitive).
		DefaultSchema("default").
		Build(),
	NewDialect("hive").
		Identifiers("`", "`", "``", core.NormCaseInsensitive).
		DefaultSchema("default").
		Build(),
	NewDialect("sqlserver").
		Aliases("mssql", "tsql").
		Identifiers("[", "]", "]]", core.NormCaseInsensitive).
		DefaultSchema("dbo").
		PlaceholderStyle(core.PlaceholderAtP).
		Build(),
}

func init() {
	for _, d := range builtins {
		Register(d)
	}
	SetDefault(ANSI)
}
