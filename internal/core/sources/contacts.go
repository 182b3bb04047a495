package sources

import "github.com/JonMunkholm/MasterList/internal/table"

var phonesEmailsInputColumns = []string{
	ShortCode, HomeEmail, WorkEmail, ExternalEmail, CellPhone, JobID, EmailAllowed, PhoneAllowed,
}

// PhonesEmailsKeep is the projection kept from the phones and emails
// extract. WorkEmailKey is a join helper and never reaches the output.
var PhonesEmailsKeep = []string{
	ShortCode, HomeEmail, WorkEmail, ExternalEmail, CellPhone, JobID, WorkEmailKey,
}

func init() {
	Register(Input{
		Key:         KeyPhonesEmails,
		Label:       "Members and Phones/Emails",
		DefaultFile: "members_and_phones_emails.csv",
		Columns:     phonesEmailsInputColumns,
	})
}

// PreparePhonesEmails applies privacy suppression and projects the contact
// columns. When Email Allowed is "no" the home, work and external emails are
// set to ""; when Phone Allowed is "no" the cell phone is set to "". The
// original work email is kept in WorkEmailKey so a suppressed row still
// joins to its member.
func PreparePhonesEmails(raw *table.Table) (*table.Table, error) {
	if err := require(raw, phonesEmailsInputColumns); err != nil {
		return nil, err
	}

	t := raw.WithColumn(WorkEmailKey, func(r table.Row) table.Cell {
		return r.Get(WorkEmail)
	})

	for _, col := range []string{HomeEmail, WorkEmail, ExternalEmail} {
		col := col
		t = t.WithColumn(col, func(r table.Row) table.Cell {
			return blank(answers(r.Get(EmailAllowed), "no"), r.Get(col))
		})
	}
	t = t.WithColumn(CellPhone, func(r table.Row) table.Cell {
		return blank(answers(r.Get(PhoneAllowed), "no"), r.Get(CellPhone))
	})

	return t.Select(PhonesEmailsKeep...)
}
