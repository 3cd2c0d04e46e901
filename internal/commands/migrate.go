package commands

import (
	"fmt"
	"log"

	"school/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{

	{
		Index:       1,
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('ADMIN', 'TEACHER', 'STUDENT');`,
	},
	{
		Index:       2,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            udise text not null,
            e_punjab_id text,
            full_name text,
            password text not null,
            role user_role,
            phone varchar(255),
            email varchar(255),
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       3,
		Description: "Create admin with udise: Admin01, password: 1",
		Query: `
        INSERT INTO users(udise, role, password)
        SELECT 'Admin01', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT udise FROM users WHERE udise = 'Admin01');
        `,
	},
	{
		Index:       4,
		Description: "Create table: classes",
		Query: `
        CREATE TABLE IF NOT EXISTS classes (
            id serial primary key,
            name text not null,
            section text,
            incharge_id int references users(id),
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       5,
		Description: "Create table: students.",
		Query: `
        CREATE TABLE IF NOT EXISTS students (
            id serial primary key,
            user_id int not null references users(id),
            class_id int references classes(id),
            student_img text,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       6,
		Description: "Create table: attendance.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance (
            id SERIAL PRIMARY KEY,
            class_id INT NOT NULL REFERENCES classes(id),
            student_id INT NOT NULL REFERENCES users(id),
            date DATE NOT NULL,
            status VARCHAR(10) NOT NULL,
            taken_by INT REFERENCES users(id),
            remarks TEXT,
            check_in_time VARCHAR(20),
            check_out_time VARCHAR(20),
            fine_amount INT DEFAULT 0,
            fine_paid BOOLEAN DEFAULT false,
            created_at TIMESTAMP DEFAULT NOW(),
            created_by INT REFERENCES users(id),
            updated_at TIMESTAMP,
            updated_by INT REFERENCES users(id),
            deleted_at TIMESTAMP,
            deleted_by INT REFERENCES users(id)
        );`,
	},
	{
		Index:       7,
		Description: "One attendance row per student per class per day.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_student_class_date_key
        ON attendance (student_id, class_id, date)
        WHERE deleted_at IS NULL;`,
	},
	{
		Index:       8,
		Description: "Create table: fines.",
		Query: `
        CREATE TABLE IF NOT EXISTS fines (
            id SERIAL PRIMARY KEY,
            student_id INT NOT NULL REFERENCES users(id),
            class_id INT NOT NULL REFERENCES classes(id),
            attendance_id INT NOT NULL REFERENCES attendance(id),
            date DATE NOT NULL,
            fine_amount INT NOT NULL DEFAULT 0,
            paid_amount INT NOT NULL DEFAULT 0,
            pending_amount INT NOT NULL DEFAULT 0,
            status VARCHAR(20) NOT NULL DEFAULT 'pending',
            remarks TEXT,
            created_at TIMESTAMP DEFAULT NOW(),
            created_by INT REFERENCES users(id),
            updated_at TIMESTAMP,
            updated_by INT REFERENCES users(id),
            deleted_at TIMESTAMP,
            deleted_by INT REFERENCES users(id)
        );`,
	},
	{
		Index:       9,
		Description: "One fine per attendance record, one per student per class per day.",
		Query: `
        CREATE UNIQUE INDEX IF NOT EXISTS fines_attendance_key
        ON fines (attendance_id)
        WHERE deleted_at IS NULL;

        CREATE UNIQUE INDEX IF NOT EXISTS fines_student_class_date_key
        ON fines (student_id, class_id, date)
        WHERE deleted_at IS NULL;`,
	},
	{
		Index:       10,
		Description: "Create table: fine_payments.",
		Query: `
        CREATE TABLE IF NOT EXISTS fine_payments (
            id SERIAL PRIMARY KEY,
            fine_id INT NOT NULL REFERENCES fines(id),
            payment_date TIMESTAMP NOT NULL DEFAULT NOW(),
            amount INT NOT NULL,
            payment_method VARCHAR(20) NOT NULL DEFAULT 'cash',
            remarks TEXT,
            received_by INT REFERENCES users(id)
        );`,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
