package queries

const GetAccounts = `
  query GetAccounts($filter: AccountsFilterInput, $order: AccountsOrderByInput, $limit: Int, $offset: Int) {
    accounts(filter: $filter, order: $order, limit: $limit, offset: $offset) {` + PageInfoFields + `
      edges {` + AccountFields + `
      }
    }
  }
`

const GetAccountByID = `
  query GetAccountById($accountId: Long!) {
    accounts(filter: { id: { eq: $accountId } }, limit: 1) {
      edges {` + AccountFields + `
      }
    }
  }
`
